package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

// filterClause renders a JobFilter into the WHERE clause shared by ListJobs
// and CountJobs. Keeping one builder guarantees the count and the page are
// computed under the same predicate.
func filterClause(f repository.JobFilter) (string, []any) {
	where := `is_archived = 0`
	var args []any

	if f.Search != "" {
		where += ` AND (title LIKE ? OR company_description LIKE ?)`
		p := "%" + f.Search + "%"
		args = append(args, p, p)
	}
	if f.Location != "" {
		where += ` AND location LIKE ?`
		args = append(args, "%"+f.Location+"%")
	}
	if f.Tags != "" {
		where += ` AND tags LIKE ?`
		args = append(args, "%"+f.Tags+"%")
	}

	return where, args
}

const jobColumns = `id, title, company_name, company_description, job_description, location, requirements, salary, tags, deadline, date_posted, is_archived`

func scanJob(scan func(dest ...any) error) (models.Job, error) {
	var j models.Job
	var archived int64
	err := scan(&j.ID, &j.Title, &j.CompanyName, &j.CompanyDescription, &j.JobDescription, &j.Location, &j.Requirements, &j.Salary, &j.Tags, &j.Deadline, &j.DatePosted, &archived)
	j.IsArchived = archived != 0
	return j, err
}

// Job methods
func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO jobs (title, company_name, company_description, job_description, location, requirements, salary, tags, deadline, date_posted, is_archived) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		j.Title, j.CompanyName, j.CompanyDescription, j.JobDescription, j.Location, j.Requirements, j.Salary, j.Tags, j.Deadline, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// GetJobByID treats archived jobs the same as nonexistent ones.
func (r *SQLiteRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? AND is_archived = 0`, id)
	j, err := scanJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &j, nil
}

// UpdateJob overwrites every mutable field; there is no partial patch.
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE jobs SET title = ?, company_name = ?, company_description = ?, job_description = ?, location = ?, requirements = ?, salary = ?, tags = ?, deadline = ? WHERE id = ?`,
		j.Title, j.CompanyName, j.CompanyDescription, j.JobDescription, j.Location, j.Requirements, j.Salary, j.Tags, j.Deadline, j.ID)
	return err
}

func (r *SQLiteRepo) ArchiveJob(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE jobs SET is_archived = 1 WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, f repository.JobFilter, limit, offset int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	where, args := filterClause(f)
	args = append(args, limit, offset)

	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE `+where+` ORDER BY date_posted DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, j)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountJobs(ctx context.Context, f repository.JobFilter) (int64, error) {
	where, args := filterClause(f)

	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+where, args...)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}

	return cnt, nil
}

func (r *SQLiteRepo) ListAllJobs(ctx context.Context) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY date_posted DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, j)
	}

	return out, rows.Err()
}
