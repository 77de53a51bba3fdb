package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/eggsim/internal/domain/save"
)

// SaveRepository is a mock for save.Repository.
type SaveRepository struct {
	mock.Mock
}

func (m *SaveRepository) Get(ctx context.Context, slot string) (*save.Record, error) {
	args := m.Called(ctx, slot)
	if rec, ok := args.Get(0).(*save.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SaveRepository) Put(ctx context.Context, rec *save.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *SaveRepository) Delete(ctx context.Context, slot string) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

// Saver is a mock for the host's save dependency.
type Saver struct {
	mock.Mock
}

func (m *Saver) Save(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
