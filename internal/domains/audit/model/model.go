package model

import "time"

const (
	TableName  = "audit_logs"
	EntityName = "audit"

	FieldID        = "id"
	FieldActor     = "actor"
	FieldAction    = "action"
	FieldCreatedAt = "created_at"
)

const (
	ActionUserRegistered   = "user.registered"
	ActionUserLogin        = "user.login"
	ActionUserUpdated      = "user.updated"
	ActionUserDeleted      = "user.deleted"
	ActionBookingCreated   = "booking.created"
	ActionBookingRejected  = "booking.rejected"
	ActionBookingCancelled = "booking.cancelled"
	ActionWorkspaceCreated = "workspace.created"
	ActionWorkspaceDeleted = "workspace.deleted"
)

type Audit struct {
	ID        string    `db:"id"         json:"id"`
	Actor     string    `db:"actor"      json:"actor"`
	Action    string    `db:"action"     json:"action"`
	Detail    string    `db:"detail"     json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
