package mocks

import (
	"context"

	"noteapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Put(ctx context.Context, rec *model.NoteRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockNoteRepository) FindByKey(ctx context.Context, key model.NoteKey) (*model.NoteRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NoteRecord), args.Error(1)
}

func (m *MockNoteRepository) List(ctx context.Context) ([]model.NoteRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.NoteRecord), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, key model.NoteKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockNoteRepository) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
