package taskstore

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clinova/taskcal/model"
)

// MockSource implements the Source interface for testing
type MockSource struct {
	mock.Mock
}

// ListTasks implements the Source interface
func (m *MockSource) ListTasks(ctx context.Context, clinicID string) ([]model.Task, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}
