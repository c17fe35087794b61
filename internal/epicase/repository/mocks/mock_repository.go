package mocks

import (
	"context"

	"epicase/internal/epicase/model"

	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a shared mock implementation of repository.RecordRepository for testing.
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Insert(ctx context.Context, rec *model.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, kind, id string, includeDeleted bool) (*model.Record, error) {
	args := m.Called(ctx, kind, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Record), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context, kind string, filter model.RecordFilter) ([]*model.Record, int64, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Record), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) Save(ctx context.Context, rec *model.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
