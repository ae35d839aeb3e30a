package domain

import "time"

// JobStatus represents the lifecycle state of a posted job.
type JobStatus string

const (
	JobOpen       JobStatus = "open"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// Job is a unit of work posted by a client.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Budget      float64   `json:"budget"`
	Duration    string    `json:"duration,omitempty"`
	ClientID    string    `json:"client_id"`
	WorkerID    string    `json:"worker_id,omitempty"`
	Status      JobStatus `json:"status"`
	Skills      []string  `json:"skills"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Deadline    time.Time `json:"deadline,omitzero"`
}

// ApplicationStatus represents the state of a worker's application to a job.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a worker's offer to take on a job.
type Application struct {
	ID           string            `json:"id"`
	JobID        string            `json:"job_id"`
	WorkerID     string            `json:"worker_id"`
	Message      string            `json:"message"`
	ProposedRate float64           `json:"proposed_rate"`
	Status       ApplicationStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Category is a service category workers can register under.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Location is a selectable service area.
type Location struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
