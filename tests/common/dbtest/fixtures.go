//go:build e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"restaurant-console/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const (
	DefaultRestaurantName     = "Default Bistro"
	DefaultRestaurantTimeZone = "Asia/Tokyo"
)

func CreateTestRestaurant(t *testing.T, db DBLike, name, timeZone string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO restaurants (id, name, timezone) VALUES ($1, $2, $3)", id, name, timeZone)
	require.NoError(t, err)

	return id
}

func CountNotificationJobs(t *testing.T, db DBLike, topic, recipient string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1 AND payload->>'to' = $2", topic, recipient).Scan(&n)
	require.NoError(t, err)

	return n
}

func ReservationVersion(t *testing.T, db DBLike, id uuid.UUID) int64 {
	t.Helper()

	var v int64
	err := db.QueryRow(context.Background(),
		"SELECT version FROM reservations WHERE id = $1", id).Scan(&v)
	require.NoError(t, err)

	return v
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO restaurants (id, name, timezone) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING;
	`, builder.DefaultRestaurantID, DefaultRestaurantName, DefaultRestaurantTimeZone)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
