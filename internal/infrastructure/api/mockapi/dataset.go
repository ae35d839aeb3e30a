package mockapi

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/skilllink/skilllink-client/internal/core/domain"
)

// DemoPassword is the password both seeded demo accounts accept.
const DemoPassword = "demo123"

// demoAccounts lists the seeded users that can actually sign in.
var demoAccounts = []string{"emily.rodriguez@email.com", "marcus.johnson@email.com"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dataset is the in-memory state of the demo backend.
type dataset struct {
	users        []domain.User
	passwords    map[string]string // user id -> bcrypt hash
	jobs         []*domain.Job
	applications []*domain.Application
	categories   []domain.Category
	locations    []domain.Location
}

func seedDataset() *dataset {
	workers := []*domain.Worker{
		{
			Profile: domain.Profile{
				ID: "w1", Name: "Marcus Johnson", Email: "marcus.johnson@email.com",
				Phone: "+1 (555) 123-4567", Location: "New York, NY",
				CreatedAt: date(2024, time.January, 15),
			},
			Skills:          []string{"Framing", "Drywall", "Finishing", "Cabinet Installation"},
			Category:        "Carpenter",
			ExperienceYears: 12, HourlyRate: 45, Rating: 4.8, TotalJobs: 127,
			Availability:   domain.AvailabilityAvailable,
			Bio:            "Experienced carpenter specializing in residential and commercial projects. Quality craftsmanship guaranteed.",
			Certifications: []string{"OSHA 10", "Lead-Safe Certified"},
		},
		{
			Profile: domain.Profile{
				ID: "w2", Name: "Sarah Martinez", Email: "sarah.martinez@email.com",
				Phone: "+1 (555) 234-5678", Location: "Los Angeles, CA",
				CreatedAt: date(2024, time.February, 1),
			},
			Skills:          []string{"Wiring", "Panel Installation", "Troubleshooting", "Smart Home Setup"},
			Category:        "Electrician",
			ExperienceYears: 8, HourlyRate: 55, Rating: 4.9, TotalJobs: 89,
			Availability:   domain.AvailabilityAvailable,
			Bio:            "Licensed electrician with expertise in residential and commercial electrical systems.",
			Certifications: []string{"Master Electrician License", "Solar Installation Certified"},
		},
		{
			Profile: domain.Profile{
				ID: "w3", Name: "David Thompson", Email: "david.thompson@email.com",
				Phone: "+1 (555) 345-6789", Location: "Chicago, IL",
				CreatedAt: date(2024, time.January, 20),
			},
			Skills:          []string{"Pipe Fitting", "Fixture Installation", "Leak Repair"},
			Category:        "Plumber",
			ExperienceYears: 10, HourlyRate: 50, Rating: 4.7, TotalJobs: 104,
			Availability:   domain.AvailabilityBusy,
			Bio:            "Master plumber handling everything from small repairs to full repipes.",
			Certifications: []string{"Master Plumber License"},
		},
		{
			Profile: domain.Profile{
				ID: "w4", Name: "Lisa Chen", Email: "lisa.chen@email.com",
				Phone: "+1 (555) 456-7890", Location: "San Francisco, CA",
				CreatedAt: date(2024, time.February, 15),
			},
			Skills:          []string{"Bricklaying", "Stonework", "Concrete"},
			Category:        "Mason",
			ExperienceYears: 9, HourlyRate: 40, Rating: 4.6, TotalJobs: 76,
			Availability:   domain.AvailabilityAvailable,
			Bio:            "Mason specializing in brick and natural stone for patios, walls and walkways.",
			Certifications: []string{"OSHA 10"},
		},
		{
			Profile: domain.Profile{
				ID: "w5", Name: "James Wilson", Email: "james.wilson@email.com",
				Phone: "+1 (555) 567-8901", Location: "Phoenix, AZ",
				CreatedAt: date(2024, time.March, 5),
			},
			Skills:          []string{"Interior Painting", "Exterior Painting", "Drywall Repair"},
			Category:        "Painter",
			ExperienceYears: 7, HourlyRate: 35, Rating: 4.5, TotalJobs: 63,
			Availability:   domain.AvailabilityOffline,
			Bio:            "Residential painter focused on clean lines and tidy job sites.",
			Certifications: nil,
		},
	}

	clients := []*domain.Client{
		{
			Profile: domain.Profile{
				ID: "c1", Name: "Emily Rodriguez", Email: "emily.rodriguez@email.com",
				Phone: "+1 (555) 111-2222", Location: "Austin, TX",
				CreatedAt: date(2024, time.January, 10),
			},
			Company: "Rodriguez Properties", JobsPosted: 12, TotalSpent: 15000,
		},
		{
			Profile: domain.Profile{
				ID: "c2", Name: "Michael Brown", Email: "michael.brown@email.com",
				Phone: "+1 (555) 222-3333", Location: "Denver, CO",
				CreatedAt: date(2024, time.February, 1),
			},
			JobsPosted: 8, TotalSpent: 8500,
		},
		{
			Profile: domain.Profile{
				ID: "c3", Name: "Jennifer Davis", Email: "jennifer.davis@email.com",
				Phone: "+1 (555) 333-4444", Location: "Boston, MA",
				CreatedAt: date(2024, time.January, 25),
			},
			Company: "Davis Construction Group", JobsPosted: 25, TotalSpent: 45000,
		},
		{
			Profile: domain.Profile{
				ID: "c4", Name: "Robert Kim", Email: "robert.kim@email.com",
				Phone: "+1 (555) 444-5555", Location: "San Francisco, CA",
				CreatedAt: date(2024, time.March, 1),
			},
			JobsPosted: 5, TotalSpent: 3200,
		},
		{
			Profile: domain.Profile{
				ID: "c5", Name: "Amanda Foster", Email: "amanda.foster@email.com",
				Phone: "+1 (555) 555-6666", Location: "Phoenix, AZ",
				CreatedAt: date(2024, time.February, 10),
			},
			JobsPosted: 3, TotalSpent: 2100,
		},
	}

	users := make([]domain.User, 0, len(workers)+len(clients))
	for _, w := range workers {
		users = append(users, w)
	}
	for _, c := range clients {
		users = append(users, c)
	}

	passwords := make(map[string]string)
	for _, u := range users {
		for _, email := range demoAccounts {
			if u.Base().Email == email {
				hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
				if err != nil {
					panic("mockapi: seed password hash: " + err.Error())
				}
				passwords[u.Base().ID] = string(hash)
			}
		}
	}

	jobs := []*domain.Job{
		{
			ID: "j1", Title: "Kitchen Cabinet Installation",
			Description: "Need experienced carpenter to install custom kitchen cabinets in a 200 sq ft kitchen. All materials provided.",
			Category:    "Carpenter", Location: "Austin, TX", Budget: 2500, Duration: "1 week",
			ClientID: "c1", Status: domain.JobOpen,
			Skills:    []string{"Experience with cabinet installation", "Own tools", "Available weekdays"},
			CreatedAt: date(2024, time.July, 1), UpdatedAt: date(2024, time.July, 1),
		},
		{
			ID: "j2", Title: "Electrical Panel Upgrade",
			Description: "Upgrade old electrical panel to 200 amp service. Must be licensed electrician.",
			Category:    "Electrician", Location: "Denver, CO", Budget: 1800, Duration: "1-2 days",
			ClientID: "c2", WorkerID: "w2", Status: domain.JobInProgress,
			Skills:    []string{"Licensed electrician", "Insurance required", "Permit experience"},
			CreatedAt: date(2024, time.June, 28), UpdatedAt: date(2024, time.June, 28),
		},
		{
			ID: "j3", Title: "Bathroom Plumbing Repair",
			Description: "Fix leaking pipes under bathroom sink and install new faucet.",
			Category:    "Plumber", Location: "Boston, MA", Budget: 450, Duration: "1-2 days",
			ClientID: "c3", WorkerID: "w3", Status: domain.JobCompleted,
			Skills:    []string{"Emergency service available", "Licensed plumber"},
			CreatedAt: date(2024, time.June, 25), UpdatedAt: date(2024, time.June, 26),
		},
		{
			ID: "j4", Title: "Brick Patio Construction",
			Description: "Build 12x16 brick patio in backyard. Materials to be provided by contractor.",
			Category:    "Mason", Location: "San Francisco, CA", Budget: 3200, Duration: "2-4 weeks",
			ClientID: "c4", Status: domain.JobOpen,
			Skills:    []string{"Masonry experience", "Own equipment", "Material sourcing"},
			CreatedAt: date(2024, time.July, 2), UpdatedAt: date(2024, time.July, 2),
		},
		{
			ID: "j5", Title: "Interior House Painting",
			Description: "Paint 3 bedrooms and living room. Approximately 1200 sq ft. Paint provided.",
			Category:    "Painter", Location: "Phoenix, AZ", Budget: 1200, Duration: "1 week",
			ClientID: "c5", Status: domain.JobOpen,
			Skills:    []string{"Interior painting experience", "Clean work area", "Own brushes and equipment"},
			CreatedAt: date(2024, time.July, 3), UpdatedAt: date(2024, time.July, 3),
		},
	}

	applications := []*domain.Application{
		{
			ID: "a1", JobID: "j1", WorkerID: "w1",
			Message:      "I have 12 years of carpentry experience and have installed numerous kitchen cabinets. I can start immediately.",
			ProposedRate: 45, Status: domain.ApplicationPending,
			CreatedAt: date(2024, time.July, 1), UpdatedAt: date(2024, time.July, 1),
		},
		{
			ID: "a2", JobID: "j4", WorkerID: "w4",
			Message:      "I specialize in brick and stone work. I can source high-quality materials and complete this project within budget.",
			ProposedRate: 40, Status: domain.ApplicationPending,
			CreatedAt: date(2024, time.July, 2), UpdatedAt: date(2024, time.July, 2),
		},
		{
			ID: "a3", JobID: "j5", WorkerID: "w5",
			Message:      "Professional painter with experience in residential projects. I guarantee clean, quality work.",
			ProposedRate: 35, Status: domain.ApplicationPending,
			CreatedAt: date(2024, time.July, 3), UpdatedAt: date(2024, time.July, 3),
		},
	}

	categories := []domain.Category{
		{ID: "carpenter", Name: "Carpenter"},
		{ID: "electrician", Name: "Electrician"},
		{ID: "plumber", Name: "Plumber"},
		{ID: "mason", Name: "Mason"},
		{ID: "painter", Name: "Painter"},
		{ID: "roofer", Name: "Roofer"},
		{ID: "hvac", Name: "HVAC Tech"},
		{ID: "landscaper", Name: "Landscaper"},
	}

	locations := []domain.Location{
		{Value: "austin-tx", Label: "Austin, TX"},
		{Value: "boston-ma", Label: "Boston, MA"},
		{Value: "chicago-il", Label: "Chicago, IL"},
		{Value: "denver-co", Label: "Denver, CO"},
		{Value: "los-angeles-ca", Label: "Los Angeles, CA"},
		{Value: "new-york-ny", Label: "New York, NY"},
		{Value: "phoenix-az", Label: "Phoenix, AZ"},
		{Value: "san-francisco-ca", Label: "San Francisco, CA"},
	}

	return &dataset{
		users:        users,
		passwords:    passwords,
		jobs:         jobs,
		applications: applications,
		categories:   categories,
		locations:    locations,
	}
}
