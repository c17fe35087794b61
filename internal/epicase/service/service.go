package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"epicase/internal/epicase/history"
	"epicase/internal/epicase/model"
	"epicase/internal/epicase/repository"
	"epicase/internal/epicase/util"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrNotDeleted   = errors.New("record is not deleted")
)

const defaultMaxAttempts = 3

type RecordService interface {
	Create(ctx context.Context, callerID, kind string, req model.CreateRecordReq) (*model.RecordResp, error)
	Get(ctx context.Context, kind, id string) (*model.RecordResp, error)
	List(ctx context.Context, kind string, req model.ListRecordsReq) (*model.ListRecordsResp, error)
	Update(ctx context.Context, callerID, kind, id string, req model.UpdateRecordReq) (*model.UpdateRecordResp, error)
	Delete(ctx context.Context, callerID, kind, id string) error
	Restore(ctx context.Context, callerID, kind, id string) (*model.RecordResp, error)
	Undo(ctx context.Context, callerID, kind, id string) (*model.RecordResp, error)
	Redo(ctx context.Context, callerID, kind, id string) (*model.RecordResp, error)
	RestoreToVersion(ctx context.Context, callerID, kind, id string, req model.RestoreVersionReq) (*model.RecordResp, error)
	History(ctx context.Context, kind, id string) (*model.HistoryResp, error)
	Compare(ctx context.Context, kind, id string, req model.CompareVersionReq) (*model.CompareResp, error)
}

type Service struct {
	Repo        repository.RecordRepository
	Engine      *history.Engine
	MaxAttempts int
	logger      *slog.Logger
}

func NewService(repo repository.RecordRepository, engine *history.Engine, maxAttempts int) *Service {
	if engine == nil {
		engine = history.NewEngine()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Service{
		Repo:        repo,
		Engine:      engine,
		MaxAttempts: maxAttempts,
		logger:      util.GetLogger(),
	}
}

func (s *Service) Create(ctx context.Context, callerID, kind string, req model.CreateRecordReq) (*model.RecordResp, error) {
	schema, err := s.validateCallerAndKind(callerID, kind)
	if err != nil {
		return nil, err
	}
	fields, err := schema.Normalize(req.Fields)
	if err != nil {
		return nil, err
	}
	// Cleared values have nothing to clear on a new record
	for k, v := range fields {
		if v == nil {
			delete(fields, k)
		}
	}

	rec := &model.Record{Kind: kind}
	rec.Fields = fields
	s.Engine.Create(&rec.Record, callerID)

	if err := s.Repo.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.audit("create", rec, callerID)
	return model.NewRecordResp(rec), nil
}

func (s *Service) Get(ctx context.Context, kind, id string) (*model.RecordResp, error) {
	if _, err := lookupSchema(kind); err != nil {
		return nil, err
	}
	rec, err := s.Repo.FindByID(ctx, kind, id, false)
	if err != nil {
		return nil, err
	}
	return model.NewRecordResp(rec), nil
}

func (s *Service) List(ctx context.Context, kind string, req model.ListRecordsReq) (*model.ListRecordsResp, error) {
	if _, err := lookupSchema(kind); err != nil {
		return nil, err
	}
	records, total, err := s.Repo.List(ctx, kind, req.Filter())
	if err != nil {
		return nil, err
	}

	data := make([]*model.RecordResp, 0, len(records))
	for _, rec := range records {
		data = append(data, model.NewRecordResp(rec))
	}
	return &model.ListRecordsResp{
		Data:       data,
		Page:       req.Page,
		Size:       req.Size,
		TotalCount: total,
	}, nil
}

// Update applies the proposed values. A proposal that changes nothing is not
// written and reports Changed=false.
func (s *Service) Update(ctx context.Context, callerID, kind, id string, req model.UpdateRecordReq) (*model.UpdateRecordResp, error) {
	schema, err := s.validateCallerAndKind(callerID, kind)
	if err != nil {
		return nil, err
	}
	proposed, err := schema.Normalize(req.Fields)
	if err != nil {
		return nil, err
	}

	var changes history.Fields
	rec, err := s.mutate(ctx, kind, id, false, func(rec *model.Record) (bool, error) {
		changes = s.Engine.Update(&rec.Record, proposed, callerID)
		return len(changes) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.audit("update", rec, callerID, "fields", changedNames(changes))
	}
	return &model.UpdateRecordResp{
		Record:  model.NewRecordResp(rec),
		Changes: changes,
		Changed: len(changes) > 0,
	}, nil
}

// Delete tombstones the record. Deleting a deleted record is reported as not found.
func (s *Service) Delete(ctx context.Context, callerID, kind, id string) error {
	if _, err := s.validateCallerAndKind(callerID, kind); err != nil {
		return err
	}
	rec, err := s.mutate(ctx, kind, id, false, func(rec *model.Record) (bool, error) {
		s.Engine.Delete(&rec.Record, callerID)
		return true, nil
	})
	if err != nil {
		return err
	}
	s.audit("delete", rec, callerID)
	return nil
}

func (s *Service) Restore(ctx context.Context, callerID, kind, id string) (*model.RecordResp, error) {
	if _, err := s.validateCallerAndKind(callerID, kind); err != nil {
		return nil, err
	}
	rec, err := s.mutate(ctx, kind, id, true, func(rec *model.Record) (bool, error) {
		if !rec.IsDeleted {
			return false, ErrNotDeleted
		}
		s.Engine.Restore(&rec.Record, callerID)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.audit("restore", rec, callerID)
	return model.NewRecordResp(rec), nil
}

func (s *Service) Undo(ctx context.Context, callerID, kind, id string) (*model.RecordResp, error) {
	if _, err := s.validateCallerAndKind(callerID, kind); err != nil {
		return nil, err
	}
	rec, err := s.mutate(ctx, kind, id, false, func(rec *model.Record) (bool, error) {
		_, err := s.Engine.Undo(&rec.Record, callerID)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}
	s.audit("undo", rec, callerID)
	return model.NewRecordResp(rec), nil
}

func (s *Service) Redo(ctx context.Context, callerID, kind, id string) (*model.RecordResp, error) {
	if _, err := s.validateCallerAndKind(callerID, kind); err != nil {
		return nil, err
	}
	rec, err := s.mutate(ctx, kind, id, false, func(rec *model.Record) (bool, error) {
		_, err := s.Engine.Redo(&rec.Record, callerID)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}
	s.audit("redo", rec, callerID)
	return model.NewRecordResp(rec), nil
}

func (s *Service) RestoreToVersion(ctx context.Context, callerID, kind, id string, req model.RestoreVersionReq) (*model.RecordResp, error) {
	if _, err := s.validateCallerAndKind(callerID, kind); err != nil {
		return nil, err
	}
	if req.HistoryIndex == nil {
		return nil, ErrBadRequest
	}
	index := *req.HistoryIndex

	rec, err := s.mutate(ctx, kind, id, false, func(rec *model.Record) (bool, error) {
		before := len(rec.History)
		if _, err := s.Engine.RestoreToVersion(&rec.Record, index, callerID); err != nil {
			return false, err
		}
		return len(rec.History) > before, nil
	})
	if err != nil {
		return nil, err
	}
	s.audit("restore_version", rec, callerID, "index", index)
	return model.NewRecordResp(rec), nil
}

// History returns the timeline newest first. Deleted records keep their history.
func (s *Service) History(ctx context.Context, kind, id string) (*model.HistoryResp, error) {
	schema, err := lookupSchema(kind)
	if err != nil {
		return nil, err
	}
	rec, err := s.Repo.FindByID(ctx, kind, id, true)
	if err != nil {
		return nil, err
	}

	timeline := slices.Collect(history.Timeline(rec.History, schema.Labels()))
	if timeline == nil {
		timeline = []history.TimelineEntry{}
	}
	return &model.HistoryResp{
		TotalChanges: len(rec.History),
		Timeline:     timeline,
	}, nil
}

// Compare reports what restoring the entry at the requested index would change.
func (s *Service) Compare(ctx context.Context, kind, id string, req model.CompareVersionReq) (*model.CompareResp, error) {
	if _, err := lookupSchema(kind); err != nil {
		return nil, err
	}
	rec, err := s.Repo.FindByID(ctx, kind, id, true)
	if err != nil {
		return nil, err
	}

	index := req.HistoryIndex()
	if index < 0 || index >= len(rec.History) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", history.ErrOutOfRange, index, len(rec.History))
	}
	entry := rec.History[index]
	if !entry.CanRestore() {
		return nil, fmt.Errorf("%w: entry %d (%s)", history.ErrNoPriorState, index, entry.Action)
	}

	diff := history.CompareVersions(rec.Fields, history.Preview(rec.Fields, entry.PriorState()))
	return &model.CompareResp{
		Index:    index,
		Action:   entry.Action,
		EditedAt: entry.EditedAt,
		EditedBy: entry.EditedBy,
		Added:    diff.Added,
		Modified: diff.Modified,
		Removed:  diff.Removed,
	}, nil
}
