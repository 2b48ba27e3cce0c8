package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/corporate-inc/contact-api/models"
)

// MockSubmissionRepository is a testify mock for the submission repository
type MockSubmissionRepository struct {
	mock.Mock
}

// NewMockSubmissionRepository creates a mock wired to the test lifecycle
func NewMockSubmissionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSubmissionRepository {
	m := &MockSubmissionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByEmail(ctx context.Context, email string) ([]models.ContactSubmission, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContactSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) GetAll(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContactSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
