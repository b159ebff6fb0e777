package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigratorCloseKeepsPoolOpen(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT CURRENT_DATABASE\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"current_database"}).AddRow("confhub"))
	mock.ExpectQuery(`SELECT CURRENT_SCHEMA\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow("public"))
	mock.ExpectExec(`SELECT pg_advisory_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM information_schema.tables`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`SELECT pg_advisory_unlock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))

	m, err := newMigrator(ctx, db)
	if err != nil {
		t.Fatalf("newMigrator: %v", err)
	}
	var closeErr error
	closeMigrator(m, &closeErr)
	if closeErr != nil {
		t.Fatalf("close migrator: %v", closeErr)
	}

	var one int
	if err := db.GetContext(ctx, &one, `SELECT 1`); err != nil {
		t.Fatalf("pool unusable after migrator close: %v", err)
	}
}

func TestNewMigratorFailsOnClosedPool(t *testing.T) {
	db, _ := newMockDB(t)
	db.Close()

	if _, err := newMigrator(context.Background(), db); err == nil {
		t.Fatal("expected error from closed pool")
	}
}
