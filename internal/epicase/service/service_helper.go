package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"epicase/internal/epicase/history"
	"epicase/internal/epicase/model"
	"epicase/internal/epicase/repository"
)

func (s *Service) validateCallerAndKind(callerID, kind string) (*model.Schema, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	return lookupSchema(kind)
}

func lookupSchema(kind string) (*model.Schema, error) {
	schema, ok := model.LookupSchema(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnknownKind, kind)
	}
	return schema, nil
}

// mutate loads the record, runs fn on it and saves the result. fn reports whether
// it changed anything; unchanged records are returned without a write. A revision
// conflict reloads and reruns fn, up to MaxAttempts times.
func (s *Service) mutate(ctx context.Context, kind, id string, includeDeleted bool, fn func(*model.Record) (bool, error)) (*model.Record, error) {
	for attempt := 1; ; attempt++ {
		rec, err := s.Repo.FindByID(ctx, kind, id, includeDeleted)
		if err != nil {
			return nil, err
		}

		changed, err := fn(rec)
		if err != nil {
			return nil, err
		}
		if !changed {
			return rec, nil
		}

		err = s.Repo.Save(ctx, rec)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, repository.ErrRevisionConflict) || attempt >= s.MaxAttempts {
			return nil, err
		}
		s.logger.Warn("revision conflict, retrying", "kind", kind, "id", id, "attempt", attempt)
	}
}

func (s *Service) audit(op string, rec *model.Record, callerID string, extra ...any) {
	args := append([]any{"op", op, "kind", rec.Kind, "id", rec.ID.Hex(), "actor", callerID, "revision", rec.Revision}, extra...)
	s.logger.Info("audit", args...)
}

func changedNames(changes history.Fields) []string {
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
