package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Period {
	t.Helper()
	p, err := Parse(s)
	require.NoError(t, err)
	return p
}

func TestIntervalClosedOpen(t *testing.T) {
	p := mustParse(t, "2014-01")
	interval, err := FromPeriods(p, p)
	require.NoError(t, err)

	assert.True(t, interval.Contains(date(2014, 1, 1)), "start is included")
	assert.True(t, interval.Contains(date(2014, 1, 31).Add(23*time.Hour)))
	assert.False(t, interval.Contains(date(2014, 2, 1)), "end is excluded")
	assert.False(t, interval.Contains(date(2013, 12, 31)))
}

func TestIntervalOpenEnds(t *testing.T) {
	interval, err := FromPeriods(nil, mustParse(t, "2000"))
	require.NoError(t, err)
	assert.True(t, interval.Contains(date(1900, 1, 1)))
	assert.False(t, interval.Contains(date(2001, 1, 1)))

	interval, err = FromPeriods(mustParse(t, "2000"), nil)
	require.NoError(t, err)
	assert.True(t, interval.Contains(date(2100, 1, 1)))
	assert.False(t, interval.Contains(date(1999, 12, 31)))

	interval, err = FromPeriods(nil, nil)
	require.NoError(t, err)
	assert.True(t, interval.Contains(date(1970, 1, 1)))
}

func TestIntervalRangeError(t *testing.T) {
	start := date(2010, 1, 1)
	end := date(2010, 1, 1)

	_, err := NewInterval(&start, &end)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Contains(t, err.Error(), "is not before")

	_, err = FromPeriods(mustParse(t, "2012"), mustParse(t, "2010"))
	assert.True(t, errors.As(err, &re))
}

func TestIntervalString(t *testing.T) {
	interval, err := FromPeriods(mustParse(t, "2014"), nil)
	require.NoError(t, err)
	assert.Equal(t, "[2014-01-01 00:00:00, None)", interval.String())
}

func TestEpochRoundTrip(t *testing.T) {
	instant := date(2014, 1, 1)
	assert.Equal(t, int64(1388534400), Epoch(instant))
	assert.Equal(t, instant, FromEpoch(1388534400))

	assert.Equal(t, instant.Add(-500*time.Millisecond), FromEpoch(1388534399.5))
	assert.Equal(t, time.Unix(-2, 500_000_000).UTC(), FromEpoch(-1.5))
}
