package mocks

import (
	"context"

	"noteapi/internal/model"
	"noteapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Save(ctx context.Context, req model.SaveRequest) (*model.NoteRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NoteRecord), args.Error(1)
}

func (m *MockNoteService) Get(ctx context.Context, key model.NoteKey) (*model.Note, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, key model.NoteKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockNoteService) List(ctx context.Context) ([]model.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *MockNoteService) PurgeAll(ctx context.Context) (*service.PurgeResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PurgeResult), args.Error(1)
}

func (m *MockNoteService) Orphans(ctx context.Context) (*service.OrphanReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrphanReport), args.Error(1)
}
