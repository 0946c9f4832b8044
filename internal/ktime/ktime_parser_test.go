package ktime

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("KST", 9*60*60)
}

func TestParseRange_EndInheritsStartDate(t *testing.T) {
	loc := seoul(t)
	p := NewParser(loc)

	start, end, err := p.ParseRange("2026년 1월 3일 오후 2:00 → 오후 4:30")
	require.NoError(t, err)
	require.NotNil(t, start)
	require.NotNil(t, end)

	assert.Equal(t, time.Date(2026, 1, 3, 14, 0, 0, 0, loc), *start)
	assert.Equal(t, time.Date(2026, 1, 3, 16, 30, 0, 0, loc), *end)
}

func TestParseRange_NoEndPart(t *testing.T) {
	loc := seoul(t)
	p := NewParser(loc)

	start, end, err := p.ParseRange("2026년 1월 3일 오전 11:00")
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Nil(t, end)
	assert.Equal(t, time.Date(2026, 1, 3, 11, 0, 0, 0, loc), *start)
}

func TestParseRange_FullEndPart(t *testing.T) {
	loc := seoul(t)
	p := NewParser(loc)

	start, end, err := p.ParseRange("2026년 1월 3일 오후 11:00 → 2026년 1월 4일 오전 1:00")
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2026, 1, 3, 23, 0, 0, 0, loc), *start)
	assert.Equal(t, time.Date(2026, 1, 4, 1, 0, 0, 0, loc), *end)
}

func TestParseRange_UnrecognizedEndIsNil(t *testing.T) {
	p := NewParser(seoul(t))

	start, end, err := p.ParseRange("2026년 1월 3일 오후 2:00 → 미정")
	require.NoError(t, err)
	assert.NotNil(t, start)
	assert.Nil(t, end)
}

func TestParseRange_Failures(t *testing.T) {
	p := NewParser(seoul(t))

	cases := map[string]string{
		"day missing":       "2026년 1월 오후 2:00 → 오후 4:30",
		"empty":             "",
		"free text":         "내일 오후",
		"february 30":       "2026년 2월 30일 오후 2:00",
		"pm hour overflow":  "2026년 1월 3일 오후 13:00",
		"minute overflow":   "2026년 1월 3일 오후 2:75",
		"bad end clock":     "2026년 1월 3일 오후 2:00 → 오후 4:99",
		"bad end full date": "2026년 1월 3일 오후 2:00 → 2026년 13월 1일 오전 1:00",
		"month zero":        "2026년 0월 3일 오전 9:00",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			start, end, err := p.ParseRange(raw)
			assert.Error(t, err)
			assert.Nil(t, start)
			assert.Nil(t, end)
		})
	}
}

func TestParseRange_HourNormalization(t *testing.T) {
	loc := seoul(t)
	p := NewParser(loc)

	for h := 1; h <= 12; h++ {
		pm := fmt.Sprintf("2026년 5월 1일 오후 %d:15", h)
		am := fmt.Sprintf("2026년 5월 1일 오전 %d:15", h)

		start, _, err := p.ParseRange(pm)
		require.NoError(t, err, pm)
		wantPM := h + 12
		if h == 12 {
			wantPM = 12
		}
		assert.Equal(t, wantPM, start.Hour(), pm)
		assert.Equal(t, 15, start.Minute(), pm)

		start, _, err = p.ParseRange(am)
		require.NoError(t, err, am)
		wantAM := h
		if h == 12 {
			wantAM = 0
		}
		assert.Equal(t, wantAM, start.Hour(), am)
	}
}

func TestTo24Hour(t *testing.T) {
	assert.Equal(t, 0, To24Hour("오전", 12))
	assert.Equal(t, 12, To24Hour("오후", 12))
	assert.Equal(t, 23, To24Hour("오후", 11))
	assert.Equal(t, 7, To24Hour("오전", 7))
}
