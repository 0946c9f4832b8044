package ktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRange(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	at := func(day, hour, minute int) time.Time {
		return time.Date(2026, 1, day, hour, minute, 0, 0, loc)
	}

	assert.Equal(t, "2PM ~ 4:30PM", FormatRange(at(3, 14, 0), at(3, 16, 30)))
	assert.Equal(t, "11PM ~ 익일 1AM", FormatRange(at(3, 23, 0), at(4, 1, 0)))
	assert.Equal(t, "12AM ~ 12PM", FormatRange(at(3, 0, 0), at(3, 12, 0)))
	assert.Equal(t, "9:05AM ~ 11AM", FormatRange(at(3, 9, 5), at(3, 11, 0)))
}

func TestClock12(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, "1PM", Clock12(time.Date(2026, 1, 1, 13, 0, 0, 0, loc)))
	assert.Equal(t, "12:30AM", Clock12(time.Date(2026, 1, 1, 0, 30, 0, 0, loc)))
}
