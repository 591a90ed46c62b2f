// Package queue defines message payloads exchanged over the message broker.
package queue

// MailQueueName is the durable queue carrying outgoing mail requests.
const MailQueueName = "mail.outbox"

// Kinds of mail the consumer knows how to deliver.
const (
	EmailKindVerification = "verification"
	EmailKindSupport      = "support"
)

// EmailRequested is published whenever the request path needs an email
// sent: account creation, resend-verification, a profile email change,
// or a support-form submission. It carries everything the consumer
// needs to build and deliver the message without querying the primary
// database, so account writes can commit regardless of mail delivery.
type EmailRequested struct {
	Kind        string `json:"kind"`
	To          string `json:"to"`
	UserID      string `json:"user_id,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	Token       string `json:"token,omitempty"`
	FromName    string `json:"from_name,omitempty"`
	FromEmail   string `json:"from_email,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message,omitempty"`
	RequestedAt string `json:"requested_at"`
}
