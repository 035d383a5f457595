package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement GORM traces
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

// dryRun opens a GORM session that renders SQL without reaching a server
func dryRun(t *testing.T, dialector gorm.Dialector) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	conn, err := gorm.Open(dialector, &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return conn, rec
}

func TestLockProductsLocksRows(t *testing.T) {
	dialectors := map[string]gorm.Dialector{
		"mysql":    mysql.New(mysql.Config{DSN: "user:pass@tcp(127.0.0.1:3306)/shop", SkipInitializeWithVersion: true}),
		"postgres": postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=user password=pass dbname=shop port=5432"}),
	}
	for name, dialector := range dialectors {
		t.Run(name, func(t *testing.T) {
			conn, rec := dryRun(t, dialector)

			_, err := New(conn).LockProducts(context.Background(), []uint{3, 1})
			require.NoError(t, err)

			require.Len(t, rec.statements, 1)
			stmt := strings.ToUpper(rec.statements[0])
			require.Contains(t, stmt, "FROM")
			require.Contains(t, stmt, "PRODUCTS")
			require.True(t, strings.HasSuffix(stmt, "FOR UPDATE"), stmt)
			require.Contains(t, stmt, "ORDER BY")
		})
	}
}
