package history

// FieldChange is a modified field in a Diff.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Diff is the structural difference between two snapshots.
type Diff struct {
	Added    Fields                 `json:"added"`
	Modified map[string]FieldChange `json:"modified"`
	Removed  Fields                 `json:"removed"`
}

// Empty reports whether the snapshots were equal.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// CompareVersions diffs two arbitrary snapshots, ignoring the same bookkeeping
// fields as BuildChangeSet.
func CompareVersions(a, b Fields) Diff {
	d := Diff{Added: Fields{}, Modified: map[string]FieldChange{}, Removed: Fields{}}

	for k, to := range b {
		if IgnoredFields[k] {
			continue
		}
		from, ok := a[k]
		switch {
		case !ok:
			d.Added[k] = to
		case !Equal(from, to):
			d.Modified[k] = FieldChange{From: from, To: to}
		}
	}
	for k, from := range a {
		if IgnoredFields[k] {
			continue
		}
		if _, ok := b[k]; !ok {
			d.Removed[k] = from
		}
	}
	return d
}

// Preview returns the fields as they would be after values were applied, without
// touching current. Nil values drop the field, as in the engine.
func Preview(current, values Fields) Fields {
	out := clone(current)
	for k, v := range values {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
