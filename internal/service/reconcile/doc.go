// Package reconcile maps inbound delivery-outcome notifications to contact
// store mutations.
//
// The mail provider publishes bounce and complaint events through SNS. Each
// webhook call carries an SNS envelope whose Type field (mirrored in the
// x-amz-sns-message-type header) says what kind of message it is, and whose
// Message field nests the actual SES notification as a second JSON layer.
//
// Only permanent bounces and complaints remove contacts. Transient bounces
// are acknowledged and ignored — a full mailbox is not an invalid address.
// No state persists across invocations; every call is classified, cleaned
// up, and acknowledged independently.
package reconcile
