package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		instant   time.Time
		precision Precision
	}{
		{"2014", date(2014, 1, 1), Year},
		{"2014-05", date(2014, 5, 1), Month},
		{"2014-05-17", date(2014, 5, 17), Day},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, tt.instant, p.Instant)
			assert.Equal(t, tt.precision, p.Precision)
			assert.Equal(t, tt.input, p.String())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	p, err := Parse("")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"2014-01-01-05", // beyond day precision
		"2014-13",
		"20x4",
		"2014-02-30",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, input, pe.Input)
		})
	}
}

func TestOpenRightEndpoint(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2014", date(2015, 1, 1)},
		{"2014-01", date(2014, 2, 1)},
		{"2014-12", date(2015, 1, 1)},
		{"2014-02-28", date(2014, 3, 1)},
		{"2014-12-31", date(2015, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.OpenRightEndpoint())
		})
	}
}

func TestPrecisionString(t *testing.T) {
	assert.Equal(t, "year", Year.String())
	assert.Equal(t, "month", Month.String())
	assert.Equal(t, "day", Day.String())
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("2001..2003-02")
	require.NoError(t, err)
	assert.Equal(t, date(2001, 1, 1), start.Instant)
	assert.Equal(t, Month, end.Precision)

	start, end, err = ParseRange("2005")
	require.NoError(t, err)
	assert.Same(t, start, end)

	start, end, err = ParseRange("..2005")
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.NotNil(t, end)

	_, _, err = ParseRange("2005..nope")
	assert.Error(t, err)
}
