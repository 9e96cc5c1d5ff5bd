package model

import "time"

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// ContactListOptions carries pagination for listing contact messages.
type ContactListOptions struct {
	Limit      int
	Skip       int
	UnreadOnly bool
}

// StatusCheck is a legacy client ping record.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Visit is one tracked page view. The client IP is only kept hashed.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarises the contact inbox and site traffic.
type Stats struct {
	TotalMessages  int64     `json:"total_messages"`
	UnreadMessages int64     `json:"unread_messages"`
	TotalViews     int64     `json:"total_views"`
	UniqueVisitors int64     `json:"unique_visitors"`
	LastUpdated    time.Time `json:"last_updated"`
}
