// Package campaign implements broadcast fanout: one personalized email per
// selected contact, sent strictly in order through the mail sender.
//
// The legacy contract is all-or-nothing — the first failing send aborts the
// remaining loop and the partial count is discarded. An opt-in
// continue-on-error mode isolates per-recipient failures instead; the
// sequential ordering and counting contract is identical in both modes.
//
// The service depends only on the Selector and Sender interfaces declared
// here, so tests substitute fakes for the contact store and SES.
package campaign
