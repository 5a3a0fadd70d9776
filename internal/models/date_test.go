package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevisionFor(t *testing.T) {
	tests := []struct {
		release string
		want    string
	}{
		{"2025-06-15", "2026-06-15"},
		{"2024-01-15", "2025-01-15"},
		{"2024-12-31", "2025-12-31"},
		{"2024-02-29", "2025-03-01"},
		{"2027-02-28", "2028-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.release, func(t *testing.T) {
			got := RevisionFor(MustParseDate(tt.release))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRevisionFor_PreservesMonthAndDayOverManyDates(t *testing.T) {
	start := NewDate(2023, time.January, 1)
	for i := 0; i < 3*366; i++ {
		d := Date{t: start.t.AddDate(0, 0, i)}
		rev := RevisionFor(d)
		if d.Month() == time.February && d.Day() == 29 {
			assert.Equal(t, time.March, rev.Month())
			assert.Equal(t, 1, rev.Day())
			continue
		}
		assert.Equal(t, d.Year()+1, rev.Year(), d.String())
		assert.Equal(t, d.Month(), rev.Month(), d.String())
		assert.Equal(t, d.Day(), rev.Day(), d.String())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("15/06/2025")
	assert.Error(t, err)

	d, err = ParseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, "15/06/2025", d.Display())
}

func TestDate_JSON(t *testing.T) {
	p := Product{ID: "abc", DateRelease: MustParseDate("2024-05-05")}
	p = p.WithRevision()

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date_release":"2024-05-05"`)
	assert.Contains(t, string(data), `"date_revision":"2025-05-05"`)

	var back Product
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.DateRelease.Equal(p.DateRelease))

	var empty Product
	require.NoError(t, json.Unmarshal([]byte(`{"date_release":""}`), &empty))
	assert.True(t, empty.DateRelease.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date_release":"tomorrow"}`), &empty))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-10", d.String())

	require.NoError(t, d.Scan("2025-04-05T00:00:00Z"))
	assert.Equal(t, "2025-04-05", d.String())

	require.NoError(t, d.Scan([]byte("2026-01-02")))
	assert.Equal(t, "2026-01-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := MustParseDate("2025-06-15").Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", v)
}
