package db

import (
	"context" // Request scoped logging
	"errors"  // Error inspection
	"time"    // Query timing

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger interface
)

// slowQuery is the duration above which a statement is logged as slow
const slowQuery = 200 * time.Millisecond

// gormLogger writes GORM output through logrus. Lookups that find nothing
// are normal control flow and are not logged.
type gormLogger struct {
	level logger.LogLevel // GORM verbosity
	slow  time.Duration   // Slow query threshold
}

// newLogger returns a logger reporting errors and slow queries
func newLogger() logger.Interface {
	return &gormLogger{level: logger.Warn, slow: slowQuery}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		logrus.WithContext(ctx).Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		logrus.WithContext(ctx).Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		logrus.WithContext(ctx).Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logrus.WithContext(ctx).WithFields(logrus.Fields{
			"sql":     sql,     // Rendered statement
			"rows":    rows,    // Rows affected
			"elapsed": elapsed, // Duration
		}).WithError(err).Error("Query failed") // Log failed query
	case elapsed > l.slow && l.level >= logger.Warn:
		sql, rows := fc()
		logrus.WithContext(ctx).WithFields(logrus.Fields{
			"sql":     sql,     // Rendered statement
			"rows":    rows,    // Rows affected
			"elapsed": elapsed, // Duration
		}).Warn("Slow query") // Log slow query
	case l.level >= logger.Info:
		sql, rows := fc()
		logrus.WithContext(ctx).WithFields(logrus.Fields{
			"sql":     sql,     // Rendered statement
			"rows":    rows,    // Rows affected
			"elapsed": elapsed, // Duration
		}).Debug("Query") // Log every query
	}
}
