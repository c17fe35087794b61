package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"epicase/internal/epicase/history"

	"github.com/go-playground/validator/v10"
)

// FieldType is the value type a schema field accepts.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBool    FieldType = "bool"
	TypeDate    FieldType = "date"
	TypeObject  FieldType = "object"
	TypeList    FieldType = "list"
)

const dateLayout = "2006-01-02"

// FieldSpec describes one business field of a record kind. Rule is a validator
// tag checked against the normalized value.
type FieldSpec struct {
	Type  FieldType
	Rule  string
	Label string
}

// Schema is the closed set of fields a record kind may carry.
type Schema struct {
	Kind   string
	Fields map[string]FieldSpec
}

// envelopeFields belong to the stored document, not to the business fields.
// Clients echoing a loaded record back may send them; they are dropped.
var envelopeFields = map[string]bool{
	"id":        true,
	"kind":      true,
	"isDeleted": true,
	"deletedAt": true,
	"deletedBy": true,
	"createdBy": true,
	"updatedBy": true,
	"createdAt": true,
}

// Normalize checks proposed against the schema and returns the values in their
// stored representation. Unknown fields and ill-typed values fail with
// history.ErrValidationFailure. A nil value, or a blank string, clears the field.
func (s *Schema) Normalize(proposed map[string]any) (history.Fields, error) {
	out := history.Fields{}
	var unknown []string

	for name, raw := range proposed {
		if name == history.MarkerKey || envelopeFields[name] || history.IgnoredFields[name] {
			continue
		}
		spec, ok := s.Fields[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		v, err := spec.normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", history.ErrValidationFailure, name, err)
		}
		out[name] = v
	}

	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("%w: unknown fields for %s: %s", history.ErrValidationFailure, s.Kind, strings.Join(unknown, ", "))
	}
	return out, nil
}

// Labels returns the field-name to label table used by the timeline.
func (s *Schema) Labels() history.Labels {
	labels := make(history.Labels, len(s.Fields))
	for name, spec := range s.Fields {
		labels[name] = spec.Label
	}
	return labels
}

func (f FieldSpec) normalize(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	var v any
	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.New("expected a string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v = s
	case TypeNumber:
		n, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		v = n
	case TypeInteger:
		n, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		if n != math.Trunc(n) {
			return nil, errors.New("expected an integer")
		}
		v = int64(n)
	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, errors.New("expected a boolean")
		}
		v = b
	case TypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.New("expected a date string")
		}
		d, err := normalizeDate(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		if d == "" {
			return nil, nil
		}
		v = d
	case TypeObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.New("expected an object")
		}
		v = m
	case TypeList:
		l, ok := raw.([]any)
		if !ok {
			return nil, errors.New("expected a list")
		}
		v = l
	default:
		return nil, fmt.Errorf("unsupported field type %q", f.Type)
	}

	if f.Rule != "" {
		if err := GetValidator().Var(v, f.Rule); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return nil, fmt.Errorf("failed on the '%s' rule", fieldErrs[0].Tag())
			}
			return nil, err
		}
	}
	return v, nil
}

func toFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, errors.New("expected a number")
	}
}

// normalizeDate accepts a calendar date or an RFC 3339 timestamp. Timestamps are
// stored in UTC.
func normalizeDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, s); err == nil {
		return s, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", errors.New("expected YYYY-MM-DD or an RFC 3339 timestamp")
	}
	return t.UTC().Format(time.RFC3339), nil
}
