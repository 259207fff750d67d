package campaign

import (
	"fmt"
	"net/url"
	"strings"
)

// PlaceholderToken is the literal marker campaign authors put in the HTML
// body where the recipient's name should appear. Substitution is a plain
// string replacement of every occurrence — not a template language.
const PlaceholderToken = "[Name]"

// FallbackName is used when a contact has no recorded name. Distinct from
// the store's "unknown origin" sentinel, which tags sources, not people.
const FallbackName = "Friend"

// Personalize replaces every occurrence of PlaceholderToken in body with
// the recipient's name, falling back to FallbackName for nameless contacts.
// Bodies without the token pass through unchanged.
func Personalize(body, name string) string {
	if name == "" {
		name = FallbackName
	}
	return strings.ReplaceAll(body, PlaceholderToken, name)
}

// UnsubscribeFooter renders the fixed footer markup with a per-contact
// unsubscribe link. The footer is always appended after personalization,
// even if the body already contains its own unsubscribe phrase.
func UnsubscribeFooter(baseURL, contactID string) string {
	return fmt.Sprintf(
		`<hr style="margin-top:32px;border:none;border-top:1px solid #ddd">`+
			`<p style="font-size:12px;color:#888">`+
			`You are receiving this email because you subscribed to our newsletter.<br>`+
			`<a href="%s">Unsubscribe</a></p>`,
		unsubscribeURL(baseURL, contactID),
	)
}

func unsubscribeURL(baseURL, contactID string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "?id=" + url.QueryEscape(contactID)
	}
	q := u.Query()
	q.Set("id", contactID)
	u.RawQuery = q.Encode()
	return u.String()
}
