package models

import "time"

type NotificationChannel string

const (
	ChannelSMS   NotificationChannel = "sms"
	ChannelEmail NotificationChannel = "email"
)

type NotificationKind string

const (
	NotificationAssignment    NotificationKind = "assignment"
	NotificationStatusChange  NotificationKind = "status_change"
	NotificationContact       NotificationKind = "contact"
	NotificationDigest        NotificationKind = "digest"
	NotificationPasswordReset NotificationKind = "password_reset"
)

// Message is one outbound SMS or e-mail.
type Message struct {
	ID        string              `json:"id"`
	Kind      NotificationKind    `json:"kind"`
	Channel   NotificationChannel `json:"channel"`
	To        string              `json:"to"`
	Subject   string              `json:"subject,omitempty"`
	Body      string              `json:"body"`
	JobID     int                 `json:"jobId,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}
