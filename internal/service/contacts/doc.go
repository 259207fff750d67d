// Package contacts implements the subscriber list service.
//
// It owns signup validation, unsubscribe, and segment selection — the
// "who receives this campaign" question. Segments are a flat filter over
// each contact's recorded origin tag, not a query language.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports
// net/http or the DynamoDB SDK directly.
package contacts
