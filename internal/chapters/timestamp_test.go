package chapters

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000000000"},
		{90 * time.Second, "00:01:30.000000000"},
		{3661500 * time.Millisecond, "01:01:01.500000000"},
		{100*time.Hour + time.Nanosecond, "100:00:00.000000001"},
		{-time.Second, "00:00:00.000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "00:00:00.000000000", want: 0},
		{in: "01:01:01.5", want: 3661500 * time.Millisecond},
		{in: "00:00:01.000000001", want: time.Second + time.Nanosecond},
		{in: "00:02:03", want: 123 * time.Second},
		{in: "00:60:00", wantErr: true},
		{in: "00:00:00.0000000001", wantErr: true},
		{in: "90s", wantErr: true},
		{in: "", wantErr: true},
		{in: "2562047:00:00", want: 2562047 * time.Hour},
		{in: "2562047:47:16.854775807", want: time.Duration(math.MaxInt64)},
		{in: "2562047:47:16.854775808", wantErr: true},
		{in: "2562048:00:00", wantErr: true},
		{in: "3000000:00:00", wantErr: true},
		{in: "99999999999999999999:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "00:05:00.000000000", want: "00:05:00.000000000"},
		{in: "0:05:00.25", want: "00:05:00.250000000"},
		{in: " 90s ", want: "00:01:30.000000000"},
		{in: "1h2m3.5s", want: "01:02:03.500000000"},
		{in: "-5s", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "2562048:00:00", wantErr: true},
		{in: "3000000:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
