package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/example/icecheck/internal/domain/facility"
	"github.com/stretchr/testify/require"
)

const testSchemaSQL = `
CREATE TEMP TABLE facilities (
	"ExtID" BIGINT PRIMARY KEY,
	"Description" TEXT NOT NULL
);
CREATE TEMP TABLE "defaultFacilities" (
	"ExtID" BIGINT PRIMARY KEY
);
INSERT INTO facilities ("ExtID", "Description") VALUES (34, 'Jim Durrell'), (12, 'Bell Arena'), (56, 'Walter Baker');
INSERT INTO "defaultFacilities" ("ExtID") VALUES (12), (56);
`

func TestFacilityRepo(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	// temp tables are per-connection, so pin one for the whole test
	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()
	_, err = conn.Exec(ctx, testSchemaSQL)
	require.NoError(t, err)

	repo := NewFacilityRepo(conn)

	got, err := repo.Facilities(ctx)
	require.NoError(t, err)
	require.Equal(t, []facility.Facility{
		{ExtID: 12, Description: "Bell Arena"},
		{ExtID: 34, Description: "Jim Durrell"},
		{ExtID: 56, Description: "Walter Baker"},
	}, got)

	ids, err := repo.DefaultIDs(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{12, 56}, ids)

	descs, err := facility.Defaults(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, []string{"Bell Arena", "Walter Baker"}, descs)
}
