package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		days int
		want Status
	}{
		{days: -1, want: StatusExpired},
		{days: 0, want: StatusExpired},
		{days: 1, want: StatusExpiring},
		{days: 30, want: StatusExpiring},
		{days: 31, want: StatusActive},
		{days: -400, want: StatusExpired},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.days), "days=%d", tt.days)
	}
}

func TestParseDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		loc     *time.Location
		want    time.Time
		wantErr bool
	}{
		{
			name:  "date only",
			input: "2025-03-01",
			loc:   time.UTC,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only in configured location",
			input: "2025-03-01",
			loc:   berlin,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, berlin),
		},
		{
			name:  "timestamp keeps its own calendar day",
			input: "2025-03-01T23:30:00-05:00",
			loc:   time.UTC,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "local timestamp without zone",
			input: "2025-03-01T18:45:10",
			loc:   time.UTC,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2025-12-31 ",
			loc:   nil,
			want:  time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "", loc: time.UTC, wantErr: true},
		{name: "garbage", input: "next tuesday", loc: time.UTC, wantErr: true},
		{name: "impossible day", input: "2025-02-30", loc: time.UTC, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, tt.loc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{name: "expires today", expiry: today, want: 0},
		{name: "expires later today", expiry: today.Add(23 * time.Hour), want: 0},
		{name: "expires tomorrow", expiry: today.AddDate(0, 0, 1), want: 1},
		{name: "thirty days", expiry: today.AddDate(0, 0, 30), want: 30},
		{name: "yesterday", expiry: today.AddDate(0, 0, -1), want: -1},
		{name: "five days ago", expiry: today.AddDate(0, 0, -5), want: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.expiry, today))
		})
	}
}

func TestDaysRemaining_TimeOfDayIndependent(t *testing.T) {
	expiry := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	base := DaysRemaining(expiry, today)
	assert.Equal(t, 7, base)
	assert.Equal(t, base, DaysRemaining(expiry, today.Add(13*time.Hour)))
	assert.Equal(t, base, DaysRemaining(expiry.Add(22*time.Hour), today.Add(13*time.Hour)))
}

func TestDaysRemaining_FarDates(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2912647, DaysRemaining(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, -739411, DaysRemaining(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), today))

	res := Evaluate("9999-12-31", today.Add(9*time.Hour), time.UTC)
	assert.True(t, res.Valid)
	assert.Equal(t, StatusActive, res.Status)
	assert.Equal(t, 2912647, res.DaysRemaining)
}

func TestDaysRemaining_AcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-30 is 23 hours long in Berlin, 2025-10-26 is 25 hours long.
	spring := DaysRemaining(time.Date(2025, 3, 31, 0, 0, 0, 0, berlin), time.Date(2025, 3, 30, 0, 0, 0, 0, berlin))
	autumn := DaysRemaining(time.Date(2025, 10, 27, 0, 0, 0, 0, berlin), time.Date(2025, 10, 26, 0, 0, 0, 0, berlin))

	assert.Equal(t, 1, spring)
	assert.Equal(t, 1, autumn)
}

func TestEvaluate(t *testing.T) {
	today := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

	t.Run("valid date", func(t *testing.T) {
		res := Evaluate("2025-01-31", today, time.UTC)
		assert.True(t, res.Valid)
		assert.Equal(t, 30, res.DaysRemaining)
		assert.Equal(t, StatusExpiring, res.Status)
	})

	t.Run("today converted into location before comparing", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)

		// 2025-01-01 20:00 UTC is already 2025-01-02 in Tokyo.
		late := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
		res := Evaluate("2025-01-02", late, tokyo)
		assert.Equal(t, 0, res.DaysRemaining)
		assert.Equal(t, StatusExpired, res.Status)
	})

	t.Run("unparseable date is unknown", func(t *testing.T) {
		res := Evaluate("soon", today, time.UTC)
		assert.False(t, res.Valid)
		assert.Equal(t, StatusUnknown, res.Status)
	})
}

func TestStatusPartition(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for offset := -40; offset <= 40; offset++ {
		days := DaysRemaining(today.AddDate(0, 0, offset), today)
		status := Classify(days)

		assert.Equal(t, days <= 0, status == StatusExpired)
		assert.Equal(t, days > 0 && days <= 30, status == StatusExpiring)
		assert.Equal(t, days > 30, status == StatusActive)
	}
}
