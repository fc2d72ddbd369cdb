package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "klines.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestCSVProvider_LoadFile verifies parsing of the default layout.
func TestCSVProvider_LoadFile(t *testing.T) {
	path := writeTempCSV(t, `timestamp,open,high,low,close,volume
2024-03-15 08:00:00,100,101,99,100.5,1000
2024-03-15 08:01:00,100.5,102,100,101.5,1200
`)

	bars, err := NewCSVProvider().LoadFile(path)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), bars[0].Timestamp)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 1200.0, bars[1].Volume)
}

// TestCSVProvider_CustomFormat verifies a custom column layout with a
// different date format and no header row.
func TestCSVProvider_CustomFormat(t *testing.T) {
	path := writeTempCSV(t, `1000,2024-03-15,100,101,99,100.5
1200,2024-03-16,100.5,102,100,101.5
`)

	provider := NewCSVProviderWithFormat(CSVColumnMapping{
		TimestampCol: 1,
		OpenCol:      2,
		HighCol:      3,
		LowCol:       4,
		CloseCol:     5,
		VolumeCol:    0,
		MinColumns:   6,
		DateFormat:   "2006-01-02",
		HasHeader:    false,
	})
	bars, err := provider.LoadFile(path)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), bars[0].Timestamp)
	assert.Equal(t, 1000.0, bars[0].Volume)
	assert.Equal(t, 101.5, bars[1].Close)
}

// TestCSVProvider_SkipsBadRows verifies unparseable rows are skipped
// rather than failing the load.
func TestCSVProvider_SkipsBadRows(t *testing.T) {
	path := writeTempCSV(t, `timestamp,open,high,low,close,volume
2024-03-15 08:00:00,100,101,99,100.5,1000
not-a-date,100,101,99,100.5,1000
2024-03-15 08:02:00,abc,101,99,100.5,1000
2024-03-15 08:03:00,100,101,99,100.5,1000
`)

	bars, err := NewCSVProvider().LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, bars, 2)
}

// TestCSVProvider_EpochMillisTimestamps verifies the millisecond epoch
// fallback used by exchange dumps.
func TestCSVProvider_EpochMillisTimestamps(t *testing.T) {
	path := writeTempCSV(t, `timestamp,open,high,low,close,volume
1710489600000,100,101,99,100.5,1000
`)

	bars, err := NewCSVProvider().LoadFile(path)
	require.NoError(t, err)

	require.Len(t, bars, 1)
	assert.Equal(t, time.UnixMilli(1710489600000).UTC(), bars[0].Timestamp)
}

// TestCSVProvider_GetKlinesLimit verifies the provider interface
// returns the trailing window.
func TestCSVProvider_GetKlinesLimit(t *testing.T) {
	path := writeTempCSV(t, `timestamp,open,high,low,close,volume
2024-03-15 08:00:00,100,101,99,100.5,1000
2024-03-15 08:01:00,100,101,99,100.5,1000
2024-03-15 08:02:00,100,101,99,100.5,1000
`)

	bars, err := NewCSVProvider().GetKlines(context.Background(), path, "1", 2)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 1, 0, 0, time.UTC), bars[0].Timestamp)
}

// TestCSVProvider_MissingFile verifies a clear error for an absent
// file.
func TestCSVProvider_MissingFile(t *testing.T) {
	_, err := NewCSVProvider().LoadFile("/nonexistent/klines.csv")

	assert.Error(t, err)
}
