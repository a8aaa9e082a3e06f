package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

// User methods
func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	role := u.Role
	if role == "" {
		role = models.RoleUser
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`, u.Username, u.PasswordHash, role)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}

		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, password_hash, role FROM users WHERE username = ?`, username)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &u, nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, password_hash, role FROM users WHERE id = ?`, id)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &u, nil
}

// ListUsers never includes password hashes.
func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, username, role FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}

		out = append(out, u)
	}

	return out, rows.Err()
}

// PromoteUser is conditional on the current role so promoting an admin (or a
// missing id) affects zero rows; the caller cannot tell the two apart.
func (r *SQLiteRepo) PromoteUser(ctx context.Context, id int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE users SET role = ? WHERE id = ? AND role = ?`, models.RoleAdmin, id, models.RoleUser)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
