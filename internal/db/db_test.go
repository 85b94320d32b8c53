package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"modqueue/internal/model"
)

func openTestDB(t *testing.T, log zerolog.Logger) *gorm.DB {
	t.Helper()
	gormDB, err := Open(DriverSQLite, ":memory:", log)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open("oracle", "whatever", zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestMigrateAndReset(t *testing.T) {
	gormDB := openTestDB(t, zerolog.Nop())

	require.NoError(t, Migrate(gormDB))
	assert.True(t, gormDB.Migrator().HasTable(&model.User{}))
	assert.True(t, gormDB.Migrator().HasIndex(&model.User{}, "Email"))
	assert.True(t, gormDB.Migrator().HasIndex(&model.User{}, "Username"))

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.User{}))
}

func TestOpen_NotFoundLookupIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	gormDB := openTestDB(t, zerolog.New(&buf))
	require.NoError(t, Migrate(gormDB))
	buf.Reset()

	var user model.User
	err := gormDB.Where("username = ? OR email = ?", "alice", "a@x.com").First(&user).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.Empty(t, buf.String())
	assert.NotContains(t, buf.String(), "a@x.com")
}

func TestOpen_QueryErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	gormDB := openTestDB(t, zerolog.New(&buf))

	var user model.User
	require.Error(t, gormDB.First(&user).Error)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"component":"gorm"`)
	assert.Contains(t, out, `"message":"query error"`)
	assert.Contains(t, out, "users")
}

func TestGormLogger_Levels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := newGormLogger(zerolog.New(&buf), time.Millisecond, gormlogger.Warn)

	l.Info(ctx, "hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warn(ctx, "shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Contains(t, buf.String(), `"message":"slow query"`)

	buf.Reset()
	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	silent.Error(ctx, "nope")
	assert.Empty(t, buf.String())
}
