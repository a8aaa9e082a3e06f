package repository

import (
	"context"
	"errors"

	"github.com/openhire/jobboard/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (username, or the one-application-per-job-per-user rule). The database
// constraint is the authoritative signal; callers must treat any pre-insert
// existence check as an optimization only.
var ErrDuplicate = errors.New("duplicate entry")

// JobFilter is the single filter predicate shared by the counting and listing
// queries, so the two can never diverge. Empty fields are not applied; all
// supplied fields are ANDed. Matching is substring, case-insensitive.
type JobFilter struct {
	Search   string // matches title OR company description
	Location string
	Tags     string
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// PromoteUser upgrades role user->admin. It reports false when no row was
	// affected, which covers both "no such user" and "already admin".
	PromoteUser(ctx context.Context, id int64) (bool, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	// GetJobByID returns nil, nil for archived or nonexistent jobs.
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	ArchiveJob(ctx context.Context, id int64) error
	ListJobs(ctx context.Context, f JobFilter, limit, offset int) ([]models.Job, error)
	CountJobs(ctx context.Context, f JobFilter) (int64, error)
	// ListAllJobs returns every job regardless of archived state.
	ListAllJobs(ctx context.Context) ([]models.Job, error)
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.Application) (int64, error)
	HasApplied(ctx context.Context, jobID, userID int64) (bool, error)
	ListByJob(ctx context.Context, jobID int64) ([]models.Application, error)
	ListAllApplications(ctx context.Context) ([]models.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Application, error)
	// UpdateApplicationStatus reports false when the application does not exist.
	UpdateApplicationStatus(ctx context.Context, id int64, status string) (bool, error)
}
