package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"timeboss-backend/models"
	"timeboss-backend/services"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

// MockJobService implements JobServiceInterface for testing
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJobs(ctx context.Context, filter *models.JobFilter) ([]*models.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, jobID int) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) CheckIn(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error) {
	args := m.Called(ctx, jobID, crewID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) CheckOut(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error) {
	args := m.Called(ctx, jobID, crewID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) SetStatus(ctx context.Context, jobID int, status string) (*models.Job, error) {
	args := m.Called(ctx, jobID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetInvoice(ctx context.Context, jobID int, claims *models.JWTClaims) (*models.Invoice, error) {
	args := m.Called(ctx, jobID, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

// MockAssignmentService implements AssignmentServiceInterface for testing
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) AssignJob(ctx context.Context, jobID int) (*models.AssignmentResult, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssignmentResult), args.Error(1)
}

func (m *MockAssignmentService) SuggestAssignments(ctx context.Context) ([]models.Suggestion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Suggestion), args.Error(1)
}

func (m *MockAssignmentService) Optimize(ctx context.Context) (*models.SuggestionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuggestionResult), args.Error(1)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) RevokeToken(claims *models.JWTClaims) {
	m.Called(claims)
}

// MockDigestRunner implements DigestRunner for testing
type MockDigestRunner struct {
	mock.Mock
}

func (m *MockDigestRunner) LastRun() (*models.DigestRun, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DigestRun), args.Error(1)
}

func (m *MockDigestRunner) RunNow(ctx context.Context, date string) (*models.DigestRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DigestRun), args.Error(1)
}

func (m *MockDigestRunner) GetHealthStatus() map[string]interface{} {
	args := m.Called()
	return args.Get(0).(map[string]interface{})
}

// stubContainer serves the mocked services; the rest are unused nils
type stubContainer struct {
	jobs   services.JobServiceInterface
	assign services.AssignmentServiceInterface
	users  services.UserServiceInterface
}

func (s *stubContainer) GetAssignmentService() services.AssignmentServiceInterface {
	return s.assign
}

func (s *stubContainer) GetJobService() services.JobServiceInterface { return s.jobs }

func (s *stubContainer) GetCrewService() services.CrewServiceInterface { return nil }

func (s *stubContainer) GetClientService() services.ClientServiceInterface { return nil }

func (s *stubContainer) GetReportService() services.ReportServiceInterface { return nil }

func (s *stubContainer) GetUserService() services.UserServiceInterface { return s.users }

func (s *stubContainer) GetContactService() services.ContactServiceInterface { return nil }

func nullLogger() logger.Logger {
	base, _ := test.NewNullLogger()
	return logger.New(base)
}

func intPtr(v int) *int { return &v }

// withClaims injects authenticated claims the way AuthMiddleware does
func withClaims(claims *models.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("jwt_claims", claims)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doChunked sends body without a Content-Length, as a streaming client would
func doChunked(r *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) models.APIResponse {
	var resp models.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func doAuthorized(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
