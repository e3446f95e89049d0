package domain

import "time"

type Notification struct {
	ID       int64
	Kind     string
	Title    string
	Body     string
	Duration time.Duration
}

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

const (
	DefaultNotificationDuration = 4500 * time.Millisecond
	ErrorNotificationDuration   = 8 * time.Second
)
