package history

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// Labels maps field names to human-readable labels.
type Labels map[string]string

// Label returns the label for field, or the field name itself.
func (l Labels) Label(field string) string {
	if label, ok := l[field]; ok && label != "" {
		return label
	}
	return field
}

// TimelineEntry is the display form of one history entry.
type TimelineEntry struct {
	OriginalIndex     int       `json:"index"`
	Date              time.Time `json:"date"`
	Actor             string    `json:"user"`
	Action            Action    `json:"action"`
	Description       string    `json:"description"`
	ChangedFieldNames []string  `json:"changedFields"`
	ChangeCount       int       `json:"changeCount"`
	CanRestore        bool      `json:"canRestore"`
}

// Timeline yields the log newest first. The sequence is lazy and can be ranged
// over any number of times; it never modifies the log.
func Timeline(log []Entry, labels Labels) iter.Seq[TimelineEntry] {
	return func(yield func(TimelineEntry) bool) {
		for i := len(log) - 1; i >= 0; i-- {
			if !yield(timelineEntry(i, log[i], labels)) {
				return
			}
		}
	}
}

func timelineEntry(index int, e Entry, labels Labels) TimelineEntry {
	names := make([]string, 0, len(e.Changes))
	for k := range e.Changes {
		names = append(names, k)
	}
	slices.Sort(names)

	return TimelineEntry{
		OriginalIndex:     index,
		Date:              e.EditedAt,
		Actor:             e.EditedBy,
		Action:            e.Action,
		Description:       describe(e.Action, names, labels),
		ChangedFieldNames: names,
		ChangeCount:       len(names),
		CanRestore:        e.CanRestore(),
	}
}

func describe(action Action, fields []string, labels Labels) string {
	switch action {
	case ActionCreated:
		return "Record created"
	case ActionUpdated:
		if len(fields) == 0 {
			return "0 fields changed"
		}
		return "Changed: " + joinLabels(fields, labels)
	case ActionDeleted:
		return "Record deleted"
	case ActionRestored:
		if len(fields) == 0 {
			return "Record restored"
		}
		return "Restored earlier version of: " + joinLabels(fields, labels)
	case ActionUndo:
		return "Last change undone"
	case ActionRedo:
		return "Undone change reapplied"
	default:
		return fmt.Sprint(action)
	}
}

func joinLabels(fields []string, labels Labels) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = labels.Label(f)
	}
	return strings.Join(out, ", ")
}
