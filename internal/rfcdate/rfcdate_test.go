package rfcdate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-formdata/internal/errs"
)

func TestParse_Full(t *testing.T) {
	ts, err := Parse("Wed, 02 Oct 2024 13:15:00 +0000")
	require.NoError(t, err)

	assert.True(t, ts.HasZone)
	assert.True(t, ts.Time.Equal(time.Date(2024, time.October, 2, 13, 15, 0, 0, time.UTC)))
	_, offset := ts.Time.Zone()
	assert.Equal(t, 0, offset)
	assert.Equal(t, "2024-10-02T13:15:00Z", ts.String())
}

func TestParse_NegativeOffset(t *testing.T) {
	ts, err := Parse("02 Oct 2024 08:30:15 -0530")
	require.NoError(t, err)

	_, offset := ts.Time.Zone()
	assert.Equal(t, -(5*3600 + 30*60), offset)
	assert.True(t, ts.Time.Equal(time.Date(2024, time.October, 2, 14, 0, 15, 0, time.UTC)))
}

func TestParse_DateOnlyIsNaive(t *testing.T) {
	ts, err := Parse("29 Feb 2024")
	require.NoError(t, err)

	assert.False(t, ts.HasZone)
	assert.Equal(t, "2024-02-29T00:00:00", ts.String())
}

func TestParse_WithoutSeconds(t *testing.T) {
	ts, err := Parse("Mon, 01 Jan 2024 09:05")
	require.NoError(t, err)
	assert.Equal(t, 9, ts.Time.Hour())
	assert.Equal(t, 5, ts.Time.Minute())
}

func TestParse_ProtocolViolations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong weekday", "Tue, 02 Oct 2024 13:15:00 +0000"},
		{"day 32", "32 Oct 2024"},
		{"day 31 of 30-day month", "31 Apr 2024"},
		{"feb 29 non-leap", "29 Feb 2023"},
		{"year before 1900", "01 Jan 1899"},
		{"four-digit old year", "01 Jan 0999"},
		{"hour 24", "01 Jan 2024 24:00:00"},
		{"bad zone minutes", "01 Jan 2024 10:00:00 +0060"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.True(t, errors.Is(err, errs.ErrProtocolViolation), "err = %v", err)
		})
	}
}

func TestParse_TrailingComment(t *testing.T) {
	ts, err := Parse("Wed, 02 Oct 2024 13:15:00 +0000 (UTC)")
	require.NoError(t, err)
	assert.True(t, ts.HasZone)
	assert.Equal(t, "2024-10-02T13:15:00Z", ts.String())

	ts, err = Parse("02 Oct 2024 (no time)")
	require.NoError(t, err)
	assert.False(t, ts.HasZone)
}

func TestParse_IllegalTokens(t *testing.T) {
	tests := []string{
		"",
		"02 Oct 999",
		"2 Oct 2024",
		"02 October 2024",
		"Wednesday, 02 Oct 2024",
		"02 Oct 2024 13:15:00 GMT",
		"02 Oct 2024 garbage",
		"02 Oct 2024 13:15:00 +0000 (UTC) x",
		"02 Oct 2024 13:15:00 +0000 (UTC",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.True(t, errors.Is(err, errs.ErrIllegalToken), "err = %v", err)
		})
	}
}
