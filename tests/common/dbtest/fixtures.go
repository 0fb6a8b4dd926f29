//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestRoomType(t *testing.T, db DBLike, code, crsRoomID string, maxGuests int) uuid.UUID {
	t.Helper()

	roomTypeID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO room_types (id, code, name, crs_room_id, min_occupancy, max_guests, max_adults, max_children)
		VALUES ($1, $2, $3, $4, 1, $5, $5, $5)
		ON CONFLICT (code) DO NOTHING`,
		roomTypeID, code, "Room "+code, crsRoomID, maxGuests)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM room_types WHERE code = $1", code).Scan(&roomTypeID)
	}

	return roomTypeID
}

func RoomTypeIDByCRSRoomID(t *testing.T, db DBLike, crsRoomID string) uuid.UUID {
	t.Helper()

	var roomTypeID uuid.UUID
	err := db.QueryRow(context.Background(),
		"SELECT id FROM room_types WHERE crs_room_id = $1", crsRoomID).Scan(&roomTypeID)
	require.NoError(t, err)
	return roomTypeID
}

// inserts the room catalog matching the sandbox CRS inventory
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO room_types (code, name, crs_room_id, min_occupancy, max_guests, max_adults, max_children) VALUES
		    ('STD', 'Standard Double', 'CRS-STD', 1, 2, 2, 1),
		    ('DLX', 'Deluxe Twin', 'CRS-DLX', 1, 3, 2, 2),
		    ('STE', 'Executive Suite', 'CRS-STE', 2, 4, 3, 2)
		ON CONFLICT (code) DO NOTHING;
	`)
	return err
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
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
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
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
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
