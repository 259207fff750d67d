package domain

import "time"

// SourceUnknown is recorded when a signup arrives without an origin tag.
const SourceUnknown = "unknown origin"

// SegmentAll is the sentinel segment value meaning "no filtering".
// An empty segment is treated the same way.
const SegmentAll = "all"

// Contact is a stored subscriber record. Email uniqueness is not enforced:
// the same address may exist under multiple IDs, and every consumer of the
// store (fanout, cleanup) must handle that.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// CampaignRequest describes a single broadcast. It is never persisted.
type CampaignRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Segment string `json:"segment,omitempty"`
}

// EmailMessage is one outbound email handed to the mail sender.
type EmailMessage struct {
	To       string
	From     string
	Subject  string
	HTMLBody string
}
