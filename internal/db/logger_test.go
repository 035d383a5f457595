package db

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureLogs records standard logger entries for the rest of the test
func captureLogs(t *testing.T) *test.Hook {
	t.Helper()
	logrus.SetOutput(io.Discard)
	hook := test.NewGlobal()
	t.Cleanup(func() {
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})
	return hook
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 0 }

	t.Run("RecordNotFoundIsQuiet", func(t *testing.T) {
		hook := captureLogs(t)
		newLogger().Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
		require.Empty(t, hook.AllEntries())
	})

	t.Run("FailedQuery", func(t *testing.T) {
		hook := captureLogs(t)
		newLogger().Trace(ctx, time.Now(), query, errors.New("boom"))
		require.Len(t, hook.AllEntries(), 1)
		entry := hook.LastEntry()
		require.Equal(t, logrus.ErrorLevel, entry.Level)
		require.Equal(t, "SELECT 1", entry.Data["sql"])
	})

	t.Run("SlowQuery", func(t *testing.T) {
		hook := captureLogs(t)
		newLogger().Trace(ctx, time.Now().Add(-time.Second), query, nil)
		require.Len(t, hook.AllEntries(), 1)
		require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("FastQueryIsQuiet", func(t *testing.T) {
		hook := captureLogs(t)
		newLogger().Trace(ctx, time.Now(), query, nil)
		require.Empty(t, hook.AllEntries())
	})

	t.Run("Silent", func(t *testing.T) {
		hook := captureLogs(t)
		newLogger().LogMode(logger.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
		require.Empty(t, hook.AllEntries())
	})

	t.Run("MissingRowThroughGorm", func(t *testing.T) {
		hook := captureLogs(t)
		conn, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() {
			if sqlDB, err := conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		require.NoError(t, conn.Exec("CREATE TABLE things (id INTEGER PRIMARY KEY)").Error)

		var row struct{ ID uint }
		err = conn.Table("things").First(&row, 42).Error
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		require.Empty(t, hook.AllEntries())
	})
}
