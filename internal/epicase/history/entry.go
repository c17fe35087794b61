package history

import (
	"maps"
	"time"
)

// Action identifies the kind of mutation an Entry records.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionRestored Action = "restored"
	ActionUndo     Action = "undo"
	ActionRedo     Action = "redo"
)

// MarkerKey is the key of the synthetic marker stored in an undo entry's changes.
// It never names a record field.
const MarkerKey = "action"

// Fields is a field-name to value mapping. Values are JSON-compatible.
type Fields map[string]any

// Entry is one append-only audit record (read-only after it is appended).
type Entry struct {
	EditedBy     string    `bson:"editedBy" json:"editedBy"`
	EditedAt     time.Time `bson:"editedAt" json:"editedAt"`
	Action       Action    `bson:"action" json:"action"`
	Changes      Fields    `bson:"changes" json:"changes"`
	PreviousData Fields    `bson:"previousData" json:"previousData"`
}

// PriorState returns the field values captured before the entry's mutation,
// without the synthetic undo marker. Empty means there is nothing to go back to.
func (e Entry) PriorState() Fields {
	out := make(Fields, len(e.PreviousData))
	for k, v := range e.PreviousData {
		if k == MarkerKey {
			continue
		}
		out[k] = v
	}
	return out
}

// CanRestore reports whether the entry carries prior field state.
func (e Entry) CanRestore() bool {
	for k := range e.PreviousData {
		if k != MarkerKey {
			return true
		}
	}
	return false
}

// Record is a versioned record: caller-owned fields, the embedded history log and the tombstone.
type Record struct {
	Fields    Fields     `bson:"fields" json:"fields"`
	History   []Entry    `bson:"editHistory" json:"editHistory"`
	IsDeleted bool       `bson:"isDeleted" json:"isDeleted"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy string     `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	CreatedBy string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedBy string     `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// apply writes values onto the record fields. A nil value removes the field.
func (r *Record) apply(values Fields) {
	if r.Fields == nil {
		r.Fields = Fields{}
	}
	for k, v := range values {
		if v == nil {
			delete(r.Fields, k)
			continue
		}
		r.Fields[k] = v
	}
}

func clone(f Fields) Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}
