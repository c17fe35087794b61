package repository

import (
	"context"
	"errors"

	"epicase/internal/epicase/model"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrRevisionConflict = errors.New("record was modified concurrently")
	ErrUnknownKind      = errors.New("unknown record kind")
)

type RecordRepository interface {
	// Insert a new record; assigns the ID and revision 1
	Insert(ctx context.Context, rec *model.Record) error
	// Load a record with its full edit log. Tombstoned records are only returned when includeDeleted is set
	FindByID(ctx context.Context, kind, id string, includeDeleted bool) (*model.Record, error)
	// List records of a kind, newest first, without their edit logs
	List(ctx context.Context, kind string, filter model.RecordFilter) ([]*model.Record, int64, error)
	// Write fields, tombstone and new log entries if the stored revision still matches
	Save(ctx context.Context, rec *model.Record) error
	// Initialize Indexes
	EnsureIndexes(ctx context.Context) error
}
