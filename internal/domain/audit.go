package domain

import "time"

type AuditEntry struct {
	AuditID   string    `json:"id" dynamodbav:"audit_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Action    string    `json:"action" dynamodbav:"action"`
	Entity    string    `json:"entity" dynamodbav:"entity"`
	EntityID  string    `json:"entity_id" dynamodbav:"entity_id"`
	Detail    string    `json:"detail,omitempty" dynamodbav:"detail"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at,unixtime"`
}

type AuditFilters struct {
	FromDate *time.Time
	ToDate   *time.Time
	Action   string
	Entity   string
	Page     int
	PageSize int
}

// ActionCount is one row of the per-action audit summary.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// AuditStats summarizes a user's audit trail.
type AuditStats struct {
	Total      int        `json:"total"`
	LastAction string     `json:"last_action,omitempty"`
	LastAt     *time.Time `json:"last_at,omitempty"`
}
