package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/privacy"
	"github.com/corporate-inc/contact-api/repositories/mocks"
	"github.com/corporate-inc/contact-api/userctx"
)

// PrivacyServiceTestSuite is a test suite for the data subject operations
type PrivacyServiceTestSuite struct {
	suite.Suite
	service            PrivacyService
	mockSubmissionRepo *mocks.MockSubmissionRepository
	mockAuditRepo      *mocks.MockAuditRepository
}

// SetupTest sets up the test suite before each test
func (suite *PrivacyServiceTestSuite) SetupTest() {
	suite.mockSubmissionRepo = mocks.NewMockSubmissionRepository(suite.T())
	suite.mockAuditRepo = mocks.NewMockAuditRepository(suite.T())

	suite.service = NewPrivacyService(
		suite.mockSubmissionRepo,
		suite.mockAuditRepo,
		privacy.DefaultSalt,
		logging.NewNop(),
	)
}

// auditedTypes returns the recorded audit event types, in order
func (suite *PrivacyServiceTestSuite) auditedTypes() []string {
	var types []string
	for _, call := range suite.mockAuditRepo.Calls {
		if call.Method == "Create" {
			types = append(types, call.Arguments.Get(1).(*models.AuditEvent).EventType)
		}
	}
	return types
}

// TestExportUserData_Success tests a successful export of stored submissions
func (suite *PrivacyServiceTestSuite) TestExportUserData_Success() {
	submissions := []models.ContactSubmission{
		{ID: "sub-1", Email: "jane@example.com", Message: "First message"},
		{ID: "sub-2", Email: "jane@example.com", Message: "Second message"},
	}

	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(submissions, nil)

	result, err := suite.service.ExportUserData(context.Background(), "jane@example.com")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.True(suite.T(), result.Success)
	assert.Equal(suite.T(), "jane@example.com", result.Email)
	assert.Equal(suite.T(), "json", result.Format)
	assert.Len(suite.T(), result.Submissions, 2)
	assert.False(suite.T(), result.GeneratedAt.IsZero())

	assert.Equal(suite.T(),
		[]string{models.EventDataExportRequest, models.EventDataExportSuccess},
		suite.auditedTypes())
}

// TestExportUserData_UnknownEmail tests that an address without stored data
// exports successfully as empty
func (suite *PrivacyServiceTestSuite) TestExportUserData_UnknownEmail() {
	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return([]models.ContactSubmission{}, nil)

	result, err := suite.service.ExportUserData(context.Background(), "nobody@example.com")

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.Empty(suite.T(), result.Submissions)
}

// TestExportUserData_InvalidEmail tests rejection of a malformed address
func (suite *PrivacyServiceTestSuite) TestExportUserData_InvalidEmail() {
	result, err := suite.service.ExportUserData(context.Background(), "not-an-email")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), MsgInvalidEmail, result.Message)
	assert.Empty(suite.T(), suite.auditedTypes())
}

// TestExportUserData_RepositoryError tests the infrastructure failure path
func (suite *PrivacyServiceTestSuite) TestExportUserData_RepositoryError() {
	expectedError := errors.New("database is locked")

	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, expectedError)

	result, err := suite.service.ExportUserData(context.Background(), "jane@example.com")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	assert.Equal(suite.T(),
		[]string{models.EventDataExportRequest, models.EventDataExportError},
		suite.auditedTypes())
}

// TestEraseUserData_Success tests a successful erasure with its audit trail
func (suite *PrivacyServiceTestSuite) TestEraseUserData_Success() {
	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("DeleteByEmail", mock.Anything, "jane@example.com").Return(int64(3), nil)

	result, err := suite.service.EraseUserData(context.Background(), "jane@example.com")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.True(suite.T(), result.Success)
	assert.Equal(suite.T(), MsgErasureScheduled, result.Message)
	assert.Equal(suite.T(), int64(3), result.DeletedCount)

	assert.Equal(suite.T(),
		[]string{
			models.EventDataDeletionRequest,
			models.EventGDPRErasureRequest,
			models.EventDataDeletionSuccess,
		},
		suite.auditedTypes())
}

// TestEraseUserData_AuditEventsCarryHashOnly tests that the erasure trail
// never stores the plain address
func (suite *PrivacyServiceTestSuite) TestEraseUserData_AuditEventsCarryHashOnly() {
	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("DeleteByEmail", mock.Anything, "jane@example.com").Return(int64(1), nil)

	_, err := suite.service.EraseUserData(context.Background(), "jane@example.com")
	assert.NoError(suite.T(), err)

	for _, call := range suite.mockAuditRepo.Calls {
		if call.Method != "Create" {
			continue
		}
		event := call.Arguments.Get(1).(*models.AuditEvent)
		assert.NotContains(suite.T(), event.EventData, "jane@example.com")
		assert.Empty(suite.T(), event.UserID)
	}
}

// TestEraseUserData_AttributesActingOperator tests that erasure performed by
// an authenticated operator is attributed in the audit trail, hashed only
func (suite *PrivacyServiceTestSuite) TestEraseUserData_AttributesActingOperator() {
	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("DeleteByEmail", mock.Anything, "jane@example.com").Return(int64(1), nil)

	ctx := userctx.SetUserID(context.Background(), "auth0|admin-1")
	ctx = userctx.SetUserEmail(ctx, "admin@corporate-inc.example")

	_, err := suite.service.EraseUserData(ctx, "jane@example.com")
	assert.NoError(suite.T(), err)

	operatorHash := privacy.HashIdentifier("admin@corporate-inc.example", privacy.DefaultSalt)
	attributed := false
	for _, call := range suite.mockAuditRepo.Calls {
		if call.Method != "Create" {
			continue
		}
		event := call.Arguments.Get(1).(*models.AuditEvent)
		assert.Equal(suite.T(), "auth0|admin-1", event.UserID)
		assert.NotContains(suite.T(), event.EventData, "admin@corporate-inc.example")
		if event.EventType == models.EventDataDeletionRequest {
			assert.Contains(suite.T(), event.EventData, operatorHash)
			attributed = true
		}
	}
	assert.True(suite.T(), attributed, "deletion request should record the operator hash")
}

// TestEraseUserData_InvalidEmail tests rejection of a malformed address
func (suite *PrivacyServiceTestSuite) TestEraseUserData_InvalidEmail() {
	result, err := suite.service.EraseUserData(context.Background(), "@broken")

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), MsgInvalidEmail, result.Message)
	assert.Empty(suite.T(), suite.auditedTypes())
}

// TestEraseUserData_RepositoryError tests the infrastructure failure path
func (suite *PrivacyServiceTestSuite) TestEraseUserData_RepositoryError() {
	expectedError := errors.New("database is locked")

	suite.mockAuditRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditEvent")).Return(nil)
	suite.mockSubmissionRepo.On("DeleteByEmail", mock.Anything, "jane@example.com").Return(int64(0), expectedError)

	result, err := suite.service.EraseUserData(context.Background(), "jane@example.com")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	assert.Equal(suite.T(),
		[]string{models.EventDataDeletionRequest, models.EventDataDeletionError},
		suite.auditedTypes())
}

func TestPrivacyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PrivacyServiceTestSuite))
}
