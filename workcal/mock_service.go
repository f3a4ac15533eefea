package workcal

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockService implements the Service interface for testing
type MockService struct {
	mock.Mock
}

// IsWorkingDay implements the Service interface
func (m *MockService) IsWorkingDay(ctx context.Context, clinicID string, date time.Time) (bool, error) {
	args := m.Called(ctx, clinicID, date)
	return args.Bool(0), args.Error(1)
}

// GetSettings implements the Service interface
func (m *MockService) GetSettings(ctx context.Context, clinicID string) (*Settings, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}
