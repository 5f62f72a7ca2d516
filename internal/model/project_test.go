package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectSort(t *testing.T) {
	assert.Equal(t, SortNewest, ParseProjectSort(""))
	assert.Equal(t, SortNewest, ParseProjectSort("oldest"))
	assert.Equal(t, SortMostFunded, ParseProjectSort("most-funded"))
	assert.Equal(t, SortEndingSoon, ParseProjectSort(" ending-soon "))
}

func TestProjectSort_OrderColumn(t *testing.T) {
	col, asc := SortNewest.OrderColumn()
	assert.Equal(t, "created_at", col)
	assert.False(t, asc)

	col, asc = SortMostFunded.OrderColumn()
	assert.Equal(t, "current_amount", col)
	assert.False(t, asc)

	col, asc = SortEndingSoon.OrderColumn()
	assert.Equal(t, "end_date", col)
	assert.True(t, asc)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), d.Time)

	d, err = ParseDate("2025-03-09T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", d.String())

	_, err = ParseDate("09/03/2025")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","end_date":"2025-12-31"}`), &p))
	assert.Equal(t, "2025-12-31", p.EndDate.String())

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"end_date":"2025-12-31"`)

	var empty Project
	require.NoError(t, json.Unmarshal([]byte(`{"end_date":null}`), &empty))
	assert.True(t, empty.EndDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"end_date":"soon"}`), &empty))
}
