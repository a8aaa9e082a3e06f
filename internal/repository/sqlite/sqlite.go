package sqlite

import (
	"errors"
	"strings"
	"time"

	"github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/pkg/repository"
	sqlite3 "modernc.org/sqlite"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.ApplicationRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

// SQLite extended result codes for uniqueness violations.
const (
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if errors.As(err, &se) {
		return se.Code() == codeConstraintUnique || se.Code() == codeConstraintPrimaryKey
	}

	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
