package history

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// IgnoredFields never take part in a diff.
var IgnoredFields = map[string]bool{
	"editHistory": true,
	"updatedAt":   true,
	"revision":    true,
	"__v":         true,
	"_id":         true,
}

// ChangeSet holds the forward values and the values they replace.
// Both maps always carry the same keys.
type ChangeSet struct {
	Changes      Fields `json:"changes"`
	PreviousData Fields `json:"previousData"`
}

// Empty reports whether the change set has no changed field.
func (c ChangeSet) Empty() bool {
	return len(c.Changes) == 0
}

// BuildChangeSet returns the subset of proposed whose values differ from current.
// A missing key and an explicit nil are the same value.
func BuildChangeSet(current, proposed Fields) ChangeSet {
	cs := ChangeSet{Changes: Fields{}, PreviousData: Fields{}}
	for k, next := range proposed {
		if IgnoredFields[k] {
			continue
		}
		prev := current[k]
		if Equal(prev, next) {
			continue
		}
		cs.Changes[k] = next
		cs.PreviousData[k] = prev
	}
	return cs
}

// Equal compares two field values by deep value equality. Values that differ only
// in their Go representation (int32 vs float64, bson.M vs map) compare equal when
// their JSON encodings match.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
