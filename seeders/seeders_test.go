package seeders_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"storefront/repository"
	"storefront/seeders"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestRunner_SkipsExecutedSeeders(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	runner := seeders.NewRunner(repository.NewGormSeederRepository(gormDB), zap.NewNop())
	called := false

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "seeders" WHERE name = $1`)).
		WithArgs("seed-categories").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := runner.Run(context.Background(), seeders.Seeder{
		Name: "seed-categories",
		Run: func(context.Context, *gorm.DB) error {
			called = true
			return nil
		},
	})

	require.NoError(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_RecordsNewSeeder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	runner := seeders.NewRunner(repository.NewGormSeederRepository(gormDB), zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "seeders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "seeders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := runner.Run(context.Background(), seeders.Seeder{
		Name: "noop",
		Run:  func(context.Context, *gorm.DB) error { return nil },
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_FailureRollsBackAndStops(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	runner := seeders.NewRunner(repository.NewGormSeederRepository(gormDB), zap.NewNop())
	secondRan := false

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "seeders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := runner.Run(context.Background(),
		seeders.Seeder{Name: "broken", Run: func(context.Context, *gorm.DB) error { return errors.New("bad data") }},
		seeders.Seeder{Name: "after", Run: func(context.Context, *gorm.DB) error { secondRan = true; return nil }},
	)

	assert.ErrorContains(t, err, "seeder broken: bad data")
	assert.False(t, secondRan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwners_PromotesConfiguredEmails(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	runner := seeders.NewRunner(repository.NewGormSeederRepository(gormDB), zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "seeders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "role"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "seeders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := runner.Run(context.Background(), seeders.Owners([]string{"owner@example.com"}, zap.NewNop()))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
