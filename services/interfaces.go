package services

import (
	"context"

	"timeboss-backend/models"
)

// AssignmentServiceInterface defines the contract for crew assignment
type AssignmentServiceInterface interface {
	AssignJob(ctx context.Context, jobID int) (*models.AssignmentResult, error)
	SuggestAssignments(ctx context.Context) ([]models.Suggestion, error)
	Optimize(ctx context.Context) (*models.SuggestionResult, error)
}

// JobServiceInterface defines the contract for job records and the job lifecycle
type JobServiceInterface interface {
	CreateJob(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error)
	GetJobs(ctx context.Context, filter *models.JobFilter) ([]*models.Job, error)
	GetJob(ctx context.Context, jobID int) (*models.Job, error)
	CheckIn(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error)
	CheckOut(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error)
	SetStatus(ctx context.Context, jobID int, status string) (*models.Job, error)
	GetInvoice(ctx context.Context, jobID int, claims *models.JWTClaims) (*models.Invoice, error)
}

// CrewServiceInterface defines the contract for crew service
type CrewServiceInterface interface {
	ListCrews(ctx context.Context) ([]*models.Crew, error)
	GetCrew(ctx context.Context, crewID int) (*models.Crew, error)
	CreateCrew(ctx context.Context, req *models.CreateCrewRequest) (*models.Crew, error)
}

// ClientServiceInterface defines the contract for client service
type ClientServiceInterface interface {
	ListClients(ctx context.Context) ([]*models.Client, error)
	CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error)
}

// ReportServiceInterface defines the contract for reports
type ReportServiceInterface interface {
	DailySummary(ctx context.Context, date string) (*models.DailySummary, error)
}

// UserServiceInterface defines the contract for user service
type UserServiceInterface interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.User, error)
	RequestPasswordReset(ctx context.Context, username string) (string, error)
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

// ContactServiceInterface defines the contract for the public contact form
type ContactServiceInterface interface {
	Submit(ctx context.Context, req *models.ContactRequest) error
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetAssignmentService() AssignmentServiceInterface
	GetJobService() JobServiceInterface
	GetCrewService() CrewServiceInterface
	GetClientService() ClientServiceInterface
	GetReportService() ReportServiceInterface
	GetUserService() UserServiceInterface
	GetContactService() ContactServiceInterface
}
