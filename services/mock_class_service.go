// File: services/mock_class_service.go
package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go-gym-classes/models"
)

// Ensure MockClassService implements the collaborator contracts.
var (
	_ ClassListingService = (*MockClassService)(nil)
	_ Authenticator       = (*MockClassService)(nil)
)

// MockClassService is a testify mock of the class collaborator.
type MockClassService struct {
	mock.Mock
}

// ListClasses (Mocked)
func (m *MockClassService) ListClasses(ctx context.Context) ([]models.ClassRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]models.ClassRecord)
	return records, args.Error(1)
}

// GetClass (Mocked)
func (m *MockClassService) GetClass(ctx context.Context, id string) (models.ClassRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(models.ClassRecord)
	return record, args.Error(1)
}

// SignUp (Mocked)
func (m *MockClassService) SignUp(ctx context.Context, id, authToken string) error {
	args := m.Called(ctx, id, authToken)
	return args.Error(0)
}

// Authenticate (Mocked)
func (m *MockClassService) Authenticate(ctx context.Context, username, password string) (models.CurrentUser, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(models.CurrentUser)
	return user, args.Error(1)
}
