// Package dynamo implements the contact repository on DynamoDB.
//
// Contacts live in a single table as PK=CONTACT#<id> / SK=PROFILE items,
// with a GSI on the email attribute for bounce/complaint cleanup lookups.
// Segment reads are full scans filtered on source — fine for a mailing
// list, the place to add cursoring if the list ever outgrows one.
package dynamo
