package reconcile

import (
	"encoding/json"
	"fmt"
)

// SNS message kinds. The kind arrives out-of-band in the
// x-amz-sns-message-type header and is mirrored in the envelope Type field.
const (
	KindSubscriptionConfirmation = "SubscriptionConfirmation"
	KindNotification             = "Notification"
)

// SES notification types nested inside an SNS Notification.
const (
	TypeBounce    = "Bounce"
	TypeComplaint = "Complaint"
)

// BouncePermanent is the only bounce sub-type that removes contacts.
const BouncePermanent = "Permanent"

// snsEnvelope is the outer SNS wrapper around every webhook delivery.
type snsEnvelope struct {
	Type         string `json:"Type"`
	MessageId    string `json:"MessageId"`
	TopicArn     string `json:"TopicArn"`
	Message      string `json:"Message"`
	SubscribeURL string `json:"SubscribeURL"`
	Timestamp    string `json:"Timestamp"`
}

// sesNotification is the second JSON layer carried in envelope.Message.
type sesNotification struct {
	NotificationType string `json:"notificationType"`
	Bounce           *struct {
		BounceType        string      `json:"bounceType"`
		BouncedRecipients []recipient `json:"bouncedRecipients"`
	} `json:"bounce"`
	Complaint *struct {
		ComplainedRecipients []recipient `json:"complainedRecipients"`
	} `json:"complaint"`
	Mail struct {
		MessageID string `json:"messageId"`
	} `json:"mail"`
}

type recipient struct {
	EmailAddress string `json:"emailAddress"`
}

// Classification is the parsed, branched view of one inbound payload.
// Recipients holds the addresses to clean up, in payload order; it is
// empty for every branch that must not mutate the store.
type Classification struct {
	Kind             string
	NotificationType string
	BounceType       string
	SubscribeURL     string
	MessageID        string
	Recipients       []string
}

// Classify decodes and branches a raw webhook payload. The kind parameter
// is the out-of-band indicator; when empty, the envelope's own Type field
// is used.
func Classify(kind string, payload []byte) (*Classification, error) {
	var env snsEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: envelope: %v", ErrMalformedPayload, err)
	}
	if kind == "" {
		kind = env.Type
	}

	switch kind {
	case KindSubscriptionConfirmation:
		return &Classification{Kind: kind, SubscribeURL: env.SubscribeURL}, nil

	case KindNotification:
		var n sesNotification
		if err := json.Unmarshal([]byte(env.Message), &n); err != nil {
			return nil, fmt.Errorf("%w: nested notification: %v", ErrMalformedPayload, err)
		}

		c := &Classification{
			Kind:             kind,
			NotificationType: n.NotificationType,
			MessageID:        n.Mail.MessageID,
		}
		switch n.NotificationType {
		case TypeBounce:
			if n.Bounce == nil {
				return nil, fmt.Errorf("%w: bounce notification without bounce field", ErrMalformedPayload)
			}
			c.BounceType = n.Bounce.BounceType
			// Transient (and any other) bounce sub-types never yield
			// cleanup recipients.
			if n.Bounce.BounceType == BouncePermanent {
				for _, r := range n.Bounce.BouncedRecipients {
					c.Recipients = append(c.Recipients, r.EmailAddress)
				}
			}
		case TypeComplaint:
			if n.Complaint == nil {
				return nil, fmt.Errorf("%w: complaint notification without complaint field", ErrMalformedPayload)
			}
			for _, r := range n.Complaint.ComplainedRecipients {
				c.Recipients = append(c.Recipients, r.EmailAddress)
			}
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}
