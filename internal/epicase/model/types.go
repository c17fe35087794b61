package model

import (
	"time"

	"epicase/internal/epicase/history"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error codes
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeInvalidOperation = "invalid_operation"
	CodeOutOfRange       = "out_of_range"
	CodeNoPriorState     = "no_prior_state"
	CodeInternal         = "internal_error"
)

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}

// Record is the stored document of a versioned case record. The history log is
// embedded and written together with the fields.
type Record struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind string             `bson:"kind" json:"kind"`

	history.Record `bson:",inline"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Revision is bumped by every successful save and guards concurrent writers.
	Revision int64 `bson:"revision" json:"revision"`

	// PersistedEntries is the number of log entries already stored.
	PersistedEntries int `bson:"-" json:"-"`
}

// RecordFilter narrows List queries.
type RecordFilter struct {
	IncludeDeleted bool
	Page           int
	Size           int
}
