package db_test

import (
	"context"
	"fmt"
	"testing"

	migrations "github.com/openhire/jobboard/db"
	dbpkg "github.com/openhire/jobboard/internal/db"
)

func openDB(t *testing.T) *dbpkg.DB {
	t.Helper()
	d, err := dbpkg.New(context.Background(), fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestNewEnablesForeignKeys(t *testing.T) {
	d := openDB(t)

	var on int
	if err := d.QueryRow(context.Background(), `PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("pragma query: %v", err)
	}
	if on != 1 {
		t.Fatalf("expected foreign_keys pragma on, got %d", on)
	}
}

func TestExecAndQuery(t *testing.T) {
	d := openDB(t)
	ctx := context.Background()

	if _, err := d.Exec(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	res, err := d.Exec(ctx, `INSERT INTO t (v) VALUES (?)`, "hello")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		t.Fatalf("last insert id: %d, %v", id, err)
	}

	var v string
	if err := d.QueryRow(ctx, `SELECT v FROM t WHERE id = ?`, id).Scan(&v); err != nil {
		t.Fatalf("query row: %v", err)
	}
	if v != "hello" {
		t.Fatalf("expected hello, got %q", v)
	}

	rows, err := d.QueryRows(ctx, `SELECT v FROM t`)
	if err != nil {
		t.Fatalf("query rows: %v", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows err: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestMigrateCreatesSchema(t *testing.T) {
	d := openDB(t)
	ctx := context.Background()

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"users", "jobs", "applications", "schema_migrations"} {
		var name string
		err := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	var version string
	if err := d.QueryRow(ctx, `SELECT version FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatalf("read schema_migrations: %v", err)
	}
	if version != "0001_init" {
		t.Fatalf("expected version 0001_init, got %q", version)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	d := openDB(t)
	ctx := context.Background()

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", count)
	}
}
