package ports

import (
	"context"
	"io"

	"github.com/skilllink/skilllink-client/internal/core/domain"
)

// LoginCredentials identifies an existing account. Role must match the role
// the account was created with.
type LoginCredentials struct {
	Email    string      `validate:"required,email"`
	Password string      `validate:"required"`
	Role     domain.Role `validate:"required,oneof=client worker"`
}

// RegisterInput carries the full profile for a new account. Role-specific
// fields are ignored when they do not match the role.
type RegisterInput struct {
	Name     string      `validate:"required"`
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=6"`
	Phone    string      `validate:"required"`
	Role     domain.Role `validate:"required,oneof=client worker"`
	Location string
	Avatar   string

	// Client fields.
	Company string

	// Worker fields.
	Category       string
	Skills         []string
	Bio            string
	Certifications []string
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	User         domain.User
	AccessToken  string
	RefreshToken string
}

// ProfileUpdate holds partial profile changes; nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string
	Avatar       *string
	Phone        *string
	Location     *string
	Bio          *string
	HourlyRate   *float64
	Availability *domain.Availability
	Skills       *[]string
}

// JobInput carries the fields a client supplies when posting a job.
type JobInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Budget      float64  `json:"budget" validate:"required,gt=0"`
	Duration    string   `json:"duration"`
	Skills      []string `json:"skills"`
}

// ApplicationInput carries a worker's offer for a job.
type ApplicationInput struct {
	JobID        string  `json:"job_id" validate:"required"`
	Message      string  `json:"message" validate:"required"`
	ProposedRate float64 `json:"proposed_rate" validate:"required,gt=0"`
}

// MessageInput carries a message sent through the remote API.
type MessageInput struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	JobID      string `json:"job_id,omitempty"`
	Content    string `json:"content" validate:"required"`
}

// UploadInput carries a file upload.
type UploadInput struct {
	FileName string
	Kind     string // "profile", "job" or "document"
	Content  io.Reader
}

// MarketplaceAPI is the capability set the client core consumes. Two
// implementations exist: the live REST client and the in-memory demo backend.
// They are chosen at composition time; callers never branch on the mode.
type MarketplaceAPI interface {
	Login(ctx context.Context, creds LoginCredentials) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshTokens(ctx context.Context, refreshToken string) (string, error)
	GetCurrentUser(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, error)

	GetWorkers(ctx context.Context) ([]*domain.Worker, error)
	GetWorkerByID(ctx context.Context, id string) (*domain.Worker, error)

	GetJobs(ctx context.Context) ([]*domain.Job, error)
	GetJobByID(ctx context.Context, id string) (*domain.Job, error)
	CreateJob(ctx context.Context, input JobInput) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error

	GetApplications(ctx context.Context) ([]*domain.Application, error)
	GetApplicationsByJob(ctx context.Context, jobID string) ([]*domain.Application, error)
	CreateApplication(ctx context.Context, input ApplicationInput) (*domain.Application, error)

	GetMessages(ctx context.Context, recipientID string) ([]domain.Message, error)
	SendMessage(ctx context.Context, input MessageInput) (domain.Message, error)

	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetLocations(ctx context.Context) ([]domain.Location, error)

	UploadFile(ctx context.Context, input UploadInput) (string, error)
}
