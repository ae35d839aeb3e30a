package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role discriminates the two sides of the marketplace.
type Role string

const (
	RoleClient Role = "client"
	RoleWorker Role = "worker"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleWorker
}

// Availability is a worker's current working state.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

// Profile holds the identity attributes shared by both roles.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the closed sum of the two marketplace identities. The role is fixed
// at creation; role-specific attributes live only on the matching variant.
type User interface {
	Role() Role
	Base() *Profile
}

// Client is a user who posts jobs.
type Client struct {
	Profile
	Company    string  `json:"company,omitempty"`
	JobsPosted int     `json:"jobs_posted"`
	TotalSpent float64 `json:"total_spent"`
}

func (c *Client) Role() Role     { return RoleClient }
func (c *Client) Base() *Profile { return &c.Profile }

// Worker is a user who performs trade work.
type Worker struct {
	Profile
	Skills          []string     `json:"skills"`
	Category        string       `json:"category"`
	ExperienceYears int          `json:"experience"`
	HourlyRate      float64      `json:"hourly_rate"`
	Rating          float64      `json:"rating"`
	TotalJobs       int          `json:"total_jobs"`
	Availability    Availability `json:"availability"`
	Bio             string       `json:"bio,omitempty"`
	Certifications  []string     `json:"certifications"`
}

func (w *Worker) Role() Role     { return RoleWorker }
func (w *Worker) Base() *Profile { return &w.Profile }

// wireUser is the flat JSON shape used on the wire and in the persisted user
// mirror. The role field discriminates which optional group is meaningful.
type wireUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`

	Company    string  `json:"company,omitempty"`
	JobsPosted int     `json:"jobs_posted,omitempty"`
	TotalSpent float64 `json:"total_spent,omitempty"`

	Skills          []string     `json:"skills,omitempty"`
	Category        string       `json:"category,omitempty"`
	ExperienceYears int          `json:"experience,omitempty"`
	HourlyRate      float64      `json:"hourly_rate,omitempty"`
	Rating          float64      `json:"rating,omitempty"`
	TotalJobs       int          `json:"total_jobs,omitempty"`
	Availability    Availability `json:"availability,omitempty"`
	Bio             string       `json:"bio,omitempty"`
	Certifications  []string     `json:"certifications,omitempty"`
}

// EncodeUser marshals a user into the flat wire shape.
func EncodeUser(u User) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("encode user: nil user")
	}
	p := u.Base()
	w := wireUser{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Avatar:    p.Avatar,
		Role:      u.Role(),
		Phone:     p.Phone,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
	}
	switch v := u.(type) {
	case *Client:
		w.Company = v.Company
		w.JobsPosted = v.JobsPosted
		w.TotalSpent = v.TotalSpent
	case *Worker:
		w.Skills = v.Skills
		w.Category = v.Category
		w.ExperienceYears = v.ExperienceYears
		w.HourlyRate = v.HourlyRate
		w.Rating = v.Rating
		w.TotalJobs = v.TotalJobs
		w.Availability = v.Availability
		w.Bio = v.Bio
		w.Certifications = v.Certifications
	default:
		return nil, fmt.Errorf("encode user: unknown variant %T", u)
	}
	return json.Marshal(w)
}

// DecodeUser unmarshals the flat wire shape back into the matching variant.
func DecodeUser(data []byte) (User, error) {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	p := Profile{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Avatar:    w.Avatar,
		Phone:     w.Phone,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
	}
	switch w.Role {
	case RoleClient:
		return &Client{
			Profile:    p,
			Company:    w.Company,
			JobsPosted: w.JobsPosted,
			TotalSpent: w.TotalSpent,
		}, nil
	case RoleWorker:
		return &Worker{
			Profile:         p,
			Skills:          w.Skills,
			Category:        w.Category,
			ExperienceYears: w.ExperienceYears,
			HourlyRate:      w.HourlyRate,
			Rating:          w.Rating,
			TotalJobs:       w.TotalJobs,
			Availability:    w.Availability,
			Bio:             w.Bio,
			Certifications:  w.Certifications,
		}, nil
	default:
		return nil, fmt.Errorf("decode user: unknown role %q", w.Role)
	}
}
