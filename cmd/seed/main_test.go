package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"modqueue/internal/auth"
	"modqueue/internal/db"
	apperrors "modqueue/internal/errors"
	"modqueue/internal/repository"
	"modqueue/internal/service"
)

func newSeedService(t *testing.T) (service.AuthService, repository.UserRepository) {
	t.Helper()
	gormDB, err := db.Open(db.DriverSQLite, ":memory:", zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	repo := repository.NewUserRepository(gormDB)
	svc := service.NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTService(auth.StaticSecret("seed")), zerolog.Nop())
	return svc, repo
}

func TestReadUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"username":"alice","email":"a@x.com","password":"pw1","first_name":"A","last_name":"L"},
		{"username":"bob","email":"b@x.com","password":"pw2","first_name":"B","last_name":"M"}
	]`), 0o600))

	users, err := readUsers(path)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "M", users[1].LastName)

	_, err = readUsers(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSeedService(t)

	users := []service.RegisterInput{
		{Username: "alice", Email: "a@x.com", Password: "pw1", FirstName: "A", LastName: "L"},
		{Username: "alice", Email: "other@x.com", Password: "pw1", FirstName: "A", LastName: "L"},
		{Username: "bob", Email: "b@x.com", Password: "pw2", FirstName: "B", LastName: "M"},
	}

	created, skipped, err := seedUsers(ctx, svc, users, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSeedUsers_StopsOnInvalidEntry(t *testing.T) {
	svc, _ := newSeedService(t)

	users := []service.RegisterInput{
		{Username: "alice", Email: "a@x.com", Password: "pw1", FirstName: "A", LastName: "L"},
		{Username: "nobody"},
	}

	created, _, err := seedUsers(context.Background(), svc, users, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
	assert.Equal(t, 1, created)
}
