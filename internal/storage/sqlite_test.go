package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amfiflow/pkg/contracts/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStoreMigrates(t *testing.T) {
	store := newTestStore(t)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestNewSQLiteStoreEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("", nil)
	assert.Error(t, err)
}

func TestUpsertInflowIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := domain.InflowRecord{Period: "01-Oct-25", Category: "SMALL CAP FUND", NetInflow: 4000.25}
	require.NoError(t, store.UpsertInflow(ctx, rec))

	// Same key again with a revised value: still one row, new value.
	rec.NetInflow = 4100.00
	require.NoError(t, store.UpsertInflow(ctx, rec))

	n, err := store.CountInflows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.GetInflowsByPeriod(ctx, "01-Oct-25")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4100.00, got[0].NetInflow)
}

func TestUpsertInflowValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.UpsertInflow(ctx, domain.InflowRecord{Category: "ELSS"}))
	assert.Error(t, store.UpsertInflow(ctx, domain.InflowRecord{Period: "01-Oct-25"}))
}

func TestUpsertInflowsBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []domain.InflowRecord{
		{Period: "01-Oct-25", Category: "MULTI CAP FUND", NetInflow: 2000.50},
		{Period: "01-Oct-25", Category: "SMALL CAP FUND", NetInflow: 4000.25},
		{Period: "01-Oct-25", Category: "ELSS", NetInflow: -120.75},
	}
	require.NoError(t, store.UpsertInflows(ctx, batch))

	// Re-ingesting the same month leaves the row count unchanged.
	require.NoError(t, store.UpsertInflows(ctx, batch))

	n, err := store.CountInflows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpsertInflowsBatchAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []domain.InflowRecord{
		{Period: "01-Oct-25", Category: "MULTI CAP FUND", NetInflow: 1},
		{Period: "", Category: "SMALL CAP FUND", NetInflow: 2},
	}
	require.Error(t, store.UpsertInflows(ctx, batch))

	// The bad row rolled back the whole batch.
	n, err := store.CountInflows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetInflowsByYear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertInflows(ctx, []domain.InflowRecord{
		{Period: "01-Jan-25", Category: "ELSS", NetInflow: 10},
		{Period: "01-Oct-25", Category: "ELSS", NetInflow: 20},
		{Period: "01-Oct-24", Category: "ELSS", NetInflow: 30},
	}))

	got, err := store.GetInflowsByYear(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "01-Jan-25", got[0].Period)
	assert.Equal(t, "01-Oct-25", got[1].Period)

	got, err = store.GetInflowsByYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30.0, got[0].NetInflow)

	got, err = store.GetInflowsByYear(ctx, 2030)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetInflowsByPeriodOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertInflows(ctx, []domain.InflowRecord{
		{Period: "01-Oct-25", Category: "SMALL CAP FUND", NetInflow: 1},
		{Period: "01-Oct-25", Category: "ELSS", NetInflow: 2},
		{Period: "01-Oct-25", Category: "MID CAP FUND", NetInflow: 3},
	}))

	got, err := store.GetInflowsByPeriod(ctx, "01-Oct-25")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "ELSS", got[0].Category)
	assert.Equal(t, "MID CAP FUND", got[1].Category)
	assert.Equal(t, "SMALL CAP FUND", got[2].Category)
}

func TestIngestionLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url := "https://portal.amfiindia.com/spages/amoct2025repo.xls"

	done, err := store.HasSuccessfulIngestion(ctx, url)
	require.NoError(t, err)
	assert.False(t, done)

	status := 200
	require.NoError(t, store.InsertIngestionLog(ctx, domain.IngestionLog{
		URL:            url,
		Month:          "oct",
		Year:           2025,
		TriggeredAt:    time.Now().UTC(),
		HTTPStatus:     &status,
		Status:         domain.IngestSuccess,
		FileDownloaded: true,
		FilePath:       "data/downloads/amoct2025repo.xls",
		FileSizeBytes:  12345,
		ParsedRecords:  11,
	}))

	done, err = store.HasSuccessfulIngestion(ctx, url)
	require.NoError(t, err)
	assert.True(t, done)

	logs, err := store.GetIngestionLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, url, logs[0].URL)
	assert.Equal(t, domain.IngestSuccess, logs[0].Status)
	require.NotNil(t, logs[0].HTTPStatus)
	assert.Equal(t, 200, *logs[0].HTTPStatus)
	assert.Equal(t, 11, logs[0].ParsedRecords)
}

// A failed attempt must not satisfy the idempotency check.
func TestHasSuccessfulIngestionIgnoresFailures(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url := "https://portal.amfiindia.com/spages/amnov2025repo.xls"
	status := 404
	require.NoError(t, store.InsertIngestionLog(ctx, domain.IngestionLog{
		URL:         url,
		Month:       "nov",
		Year:        2025,
		TriggeredAt: time.Now().UTC(),
		HTTPStatus:  &status,
		Status:      domain.IngestFailed,
	}))

	done, err := store.HasSuccessfulIngestion(ctx, url)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestGetIngestionLogsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.InsertIngestionLog(ctx, domain.IngestionLog{
			URL:         "https://portal.amfiindia.com/spages/amoct2025repo.xls",
			Month:       "oct",
			Year:        2025,
			TriggeredAt: base.Add(time.Duration(i) * time.Hour),
			Status:      domain.IngestFailed,
		}))
	}

	logs, err := store.GetIngestionLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].TriggeredAt.After(logs[1].TriggeredAt))
}
