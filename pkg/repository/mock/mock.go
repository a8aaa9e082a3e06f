package mock

import (
	"context"

	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Users *UserRepo
	Jobs  *JobRepo
	Apps  *ApplicationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users: &UserRepo{},
		Jobs:  &JobRepo{},
		Apps:  &ApplicationRepo{},
	}
}

type UserRepo struct {
	Stored     *models.User
	All        []models.User
	CreateErr  error
	ListErr    error
	Promoted   bool
	PromoteErr error
	PromotedID int64
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	m.Stored = &models.User{ID: 1, Username: u.Username, PasswordHash: u.PasswordHash, Role: role}
	return 1, nil
}

func (m *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Username == username {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.All, nil
}

func (m *UserRepo) PromoteUser(ctx context.Context, id int64) (bool, error) {
	m.PromotedID = id
	if m.PromoteErr != nil {
		return false, m.PromoteErr
	}
	return m.Promoted, nil
}

type JobRepo struct {
	Stored     *models.Job
	Listed     []models.Job
	All        []models.Job
	Count      int64
	CreateErr  error
	GetErr     error
	UpdateErr  error
	ArchiveErr error
	ListErr    error
	CountErr   error

	LastFilter repository.JobFilter
	LastLimit  int
	LastOffset int
	ArchivedID int64
	Updated    *models.Job
}

var _ repository.JobRepo = (*JobRepo)(nil)

func (m *JobRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = j
	return 1, nil
}

func (m *JobRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.ID == id && !m.Stored.IsArchived {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *JobRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = j
	return nil
}

func (m *JobRepo) ArchiveJob(ctx context.Context, id int64) error {
	if m.ArchiveErr != nil {
		return m.ArchiveErr
	}
	m.ArchivedID = id
	return nil
}

func (m *JobRepo) ListJobs(ctx context.Context, f repository.JobFilter, limit, offset int) ([]models.Job, error) {
	m.LastFilter = f
	m.LastLimit = limit
	m.LastOffset = offset
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Listed, nil
}

func (m *JobRepo) CountJobs(ctx context.Context, f repository.JobFilter) (int64, error) {
	m.LastFilter = f
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return m.Count, nil
}

func (m *JobRepo) ListAllJobs(ctx context.Context) ([]models.Job, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.All, nil
}

type ApplicationRepo struct {
	Stored      *models.Application
	ByJob       []models.Application
	ByUser      []models.Application
	All         []models.Application
	CreateErr   error
	AppliedErr  error
	ListErr     error
	UpdateErr   error
	Applied     bool
	Updated     bool
	LastStatus  string
	LastAppID   int64
	UpdateCalls int
}

var _ repository.ApplicationRepo = (*ApplicationRepo)(nil)

func (m *ApplicationRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = a
	return 1, nil
}

func (m *ApplicationRepo) HasApplied(ctx context.Context, jobID, userID int64) (bool, error) {
	if m.AppliedErr != nil {
		return false, m.AppliedErr
	}
	return m.Applied, nil
}

func (m *ApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ByJob, nil
}

func (m *ApplicationRepo) ListAllApplications(ctx context.Context) ([]models.Application, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.All, nil
}

func (m *ApplicationRepo) ListByUser(ctx context.Context, userID int64) ([]models.Application, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ByUser, nil
}

func (m *ApplicationRepo) UpdateApplicationStatus(ctx context.Context, id int64, status string) (bool, error) {
	m.UpdateCalls++
	m.LastAppID = id
	m.LastStatus = status
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	return m.Updated, nil
}
