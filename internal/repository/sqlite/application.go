package sqlite

import (
	"context"
	"fmt"

	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

// Application methods

// CreateApplication relies on the UNIQUE(job_id, user_id) constraint as the
// authoritative duplicate signal; any pre-insert check the caller makes is an
// early exit only.
func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}

	status := a.Status
	if status == "" {
		status = models.StatusPending
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO applications (job_id, user_id, cover_letter, cv_url, status, application_date) VALUES (?, ?, ?, ?, ?, ?)`,
		a.JobID, a.UserID, a.CoverLetter, a.CVURL, status, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}

		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) HasApplied(ctx context.Context, jobID, userID int64) (bool, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM applications WHERE job_id = ? AND user_id = ?`, jobID, userID)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return false, err
	}

	return cnt > 0, nil
}

func (r *SQLiteRepo) ListByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT a.id, a.job_id, a.user_id, a.cover_letter, a.cv_url, a.status, a.application_date, u.username
		 FROM applications a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.job_id = ?
		 ORDER BY a.application_date DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.UserID, &a.CoverLetter, &a.CVURL, &a.Status, &a.ApplicationDate, &a.Username); err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListAllApplications(ctx context.Context) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT a.id, a.job_id, a.user_id, a.cover_letter, a.cv_url, a.status, a.application_date, u.username, j.title, j.company_name
		 FROM applications a
		 JOIN users u ON a.user_id = u.id
		 JOIN jobs j ON a.job_id = j.id
		 ORDER BY a.application_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.UserID, &a.CoverLetter, &a.CVURL, &a.Status, &a.ApplicationDate, &a.Username, &a.JobTitle, &a.CompanyName); err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListByUser(ctx context.Context, userID int64) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT a.id, a.job_id, a.user_id, a.cover_letter, a.cv_url, a.status, a.application_date, j.title, j.company_name
		 FROM applications a
		 JOIN jobs j ON a.job_id = j.id
		 WHERE a.user_id = ?
		 ORDER BY a.application_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.UserID, &a.CoverLetter, &a.CVURL, &a.Status, &a.ApplicationDate, &a.JobTitle, &a.CompanyName); err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateApplicationStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE applications SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
