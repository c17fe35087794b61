package history

import (
	"fmt"
	"time"
)

// Engine records mutations on a Record's embedded log and implements undo, redo
// and restore-to-version. It holds no per-record state; callers must serialize
// mutations of a single record and persist the record and its log in one write.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock overrides the time source used for EditedAt and DeletedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create appends the created entry.
func (e *Engine) Create(rec *Record, actor string) {
	if rec.Fields == nil {
		rec.Fields = Fields{}
	}
	rec.CreatedBy = actor
	rec.UpdatedBy = actor
	e.appendEntry(rec, actor, ActionCreated, Fields{}, Fields{})
}

// Update applies the fields of proposed that differ from the record and appends an
// updated entry. The returned changes are empty, and nothing is appended, when the
// proposal changes nothing.
func (e *Engine) Update(rec *Record, proposed Fields, actor string) Fields {
	cs := BuildChangeSet(rec.Fields, proposed)
	if cs.Empty() {
		return Fields{}
	}
	rec.apply(cs.Changes)
	rec.UpdatedBy = actor
	e.appendEntry(rec, actor, ActionUpdated, cs.Changes, cs.PreviousData)
	return clone(cs.Changes)
}

// Delete tombstones the record.
func (e *Engine) Delete(rec *Record, actor string) {
	at := e.stamp(rec)
	rec.IsDeleted = true
	rec.DeletedAt = &at
	rec.DeletedBy = actor
	e.appendEntry(rec, actor, ActionDeleted, Fields{}, Fields{})
}

// Restore clears the tombstone.
func (e *Engine) Restore(rec *Record, actor string) {
	rec.IsDeleted = false
	rec.DeletedAt = nil
	rec.DeletedBy = ""
	e.appendEntry(rec, actor, ActionRestored, Fields{}, Fields{})
}

// Undo reverts the most recent entry that carries prior field state. Undo entries
// are never targets themselves; reapplying their forward values is Redo's job.
// The scan is linear in the log length.
func (e *Engine) Undo(rec *Record, actor string) (*Record, error) {
	idx := -1
	for i := len(rec.History) - 1; i >= 0; i-- {
		entry := rec.History[i]
		if entry.Action != ActionUndo && entry.CanRestore() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: nothing to undo", ErrInvalidOperation)
	}

	target := rec.History[idx]
	rec.apply(target.PriorState())
	rec.UpdatedBy = actor
	e.appendEntry(rec, actor, ActionUndo, Fields{MarkerKey: string(ActionUndo)}, clone(target.Changes))
	return rec, nil
}

// Redo reapplies the forward values stored by the most recent undo that has not
// been matched by a later redo.
func (e *Engine) Redo(rec *Record, actor string) (*Record, error) {
	idx := pendingUndo(rec.History)
	if idx < 0 {
		return nil, fmt.Errorf("%w: nothing to redo", ErrInvalidOperation)
	}

	undone := rec.History[idx]
	forward := undone.PriorState()
	rec.apply(forward)
	rec.UpdatedBy = actor
	e.appendEntry(rec, actor, ActionRedo, forward, clone(undone.Changes))
	return rec, nil
}

// pendingUndo returns the index of the newest undo entry without a matching redo,
// or -1. Each redo seen while scanning backward cancels the next older undo.
func pendingUndo(log []Entry) int {
	redos := 0
	for i := len(log) - 1; i >= 0; i-- {
		switch log[i].Action {
		case ActionRedo:
			redos++
		case ActionUndo:
			if redos == 0 {
				return i
			}
			redos--
		}
	}
	return -1
}

// RestoreToVersion overwrites the record fields with the prior state captured at
// index. The restore is appended as a restored entry holding the values written and
// the values they replaced; a restore that changes nothing appends nothing.
func (e *Engine) RestoreToVersion(rec *Record, index int, actor string) (*Record, error) {
	if index < 0 || index >= len(rec.History) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(rec.History))
	}
	prior := rec.History[index].PriorState()
	if len(prior) == 0 {
		return nil, fmt.Errorf("%w: entry %d (%s)", ErrNoPriorState, index, rec.History[index].Action)
	}

	cs := BuildChangeSet(rec.Fields, prior)
	rec.apply(prior)
	rec.UpdatedBy = actor
	if !cs.Empty() {
		e.appendEntry(rec, actor, ActionRestored, cs.Changes, cs.PreviousData)
	}
	return rec, nil
}

func (e *Engine) appendEntry(rec *Record, actor string, action Action, changes, previous Fields) {
	rec.History = append(rec.History, Entry{
		EditedBy:     actor,
		EditedAt:     e.stamp(rec),
		Action:       action,
		Changes:      changes,
		PreviousData: previous,
	})
}

// stamp returns the current time at millisecond precision, never earlier than the
// last entry so the log stays ordered by EditedAt.
func (e *Engine) stamp(rec *Record) time.Time {
	at := e.now().UTC().Truncate(time.Millisecond)
	if n := len(rec.History); n > 0 && at.Before(rec.History[n-1].EditedAt) {
		at = rec.History[n-1].EditedAt
	}
	return at
}
