package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLFor(t *testing.T) {
	assert.Equal(t, "https://portal.amfiindia.com/spages/amoct2025repo.xls", URLFor("oct", 2025))
	assert.Equal(t, "https://portal.amfiindia.com/spages/amjan2026repo.xls", URLFor("JAN", 2026))
}

func TestMonthToken(t *testing.T) {
	assert.Equal(t, "jan", MonthToken(time.January))
	assert.Equal(t, "dec", MonthToken(time.December))
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.October, 15, 10, 0, 0, 0, time.UTC)
	url, month, year := CurrentMonth(now)
	assert.Equal(t, "oct", month)
	assert.Equal(t, 2025, year)
	assert.Equal(t, "https://portal.amfiindia.com/spages/amoct2025repo.xls", url)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "amoct2025repo.xls", FileName("Oct", 2025))
}

func TestFetch(t *testing.T) {
	payload := []byte("workbook bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spages/amoct2025repo.xls", r.URL.Path)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := New(dir, 5*time.Second, nil)
	d.baseURL = srv.URL + "/spages/am%s%drepo.xls"

	res, err := d.Fetch(context.Background(), "oct", 2025)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.Equal(t, int64(len(payload)), res.FileSizeBytes)

	saved, err := os.ReadFile(res.FilePath)
	require.NoError(t, err)
	assert.Equal(t, payload, saved)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := New(t.TempDir(), 5*time.Second, nil)
	d.baseURL = srv.URL + "/spages/am%s%drepo.xls"

	res, err := d.Fetch(context.Background(), "dec", 2025)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, res.HTTPStatus)
	assert.Empty(t, res.FilePath)
}

func TestFetchContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	d := New(t.TempDir(), 5*time.Second, nil)
	d.baseURL = srv.URL + "/spages/am%s%drepo.xls"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Fetch(ctx, "oct", 2025)
	assert.Error(t, err)
}
