package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "january", in: time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC), want: "January 2025"},
		{name: "march", in: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), want: "March 2025"},
		{name: "december", in: time.Date(1999, 12, 15, 12, 0, 0, 0, time.UTC), want: "December 1999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestKeyUsesTimeLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 2025-01-31 20:00 UTC is already February in UTC+7.
	in := time.Date(2025, 1, 31, 20, 0, 0, 0, time.UTC).In(jakarta)
	assert.Equal(t, "February 2025", Key(in))
}

func TestParse(t *testing.T) {
	tests := []struct {
		key     string
		want    Period
		wantErr bool
	}{
		{key: "March 2025", want: Period{Year: 2025, Month: time.March}},
		{key: "  december   2024 ", want: Period{Year: 2024, Month: time.December}},
		{key: "MAY 2030", want: Period{Year: 2030, Month: time.May}},
		{key: "", wantErr: true},
		{key: "March", wantErr: true},
		{key: "Marchh 2025", wantErr: true},
		{key: "March 25", wantErr: true},
		{key: "March 2025 extra", wantErr: true},
		{key: "2025 March", wantErr: true},
		{key: "March -202", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Parse(tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	for i := 0; i < 24; i++ {
		got, err := Parse(p.Key())
		require.NoError(t, err)
		assert.Equal(t, p, got)
		p = p.Next()
	}
}

func TestArithmetic(t *testing.T) {
	jan := MustParse("January 2025")
	assert.Equal(t, "December 2024", jan.Prev().Key())
	assert.Equal(t, "February 2025", jan.Next().Key())
	assert.Equal(t, "January 2026", jan.AddMonths(12).Key())
	assert.Equal(t, "November 2023", jan.AddMonths(-14).Key())

	assert.True(t, jan.Before(jan.Next()))
	assert.True(t, jan.After(jan.Prev()))
	assert.Equal(t, 0, jan.Compare(MustParse("january 2025")))
}

func TestCompleted(t *testing.T) {
	feb := MustParse("February 2025")

	assert.False(t, Completed(feb, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)))
	assert.True(t, Completed(feb, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, Completed(feb, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, Completed(MustParse("March 2025"), time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)))
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, Past, Classify("February 2025", now))
	assert.Equal(t, Current, Classify("March 2025", now))
	assert.Equal(t, Future, Classify("April 2025", now))
	assert.Equal(t, NonComparable, Classify("Fooember 2025", now))

	assert.True(t, IsCurrentOrFuture("March 2025", now))
	assert.True(t, IsCurrentOrFuture("January 2026", now))
	assert.False(t, IsCurrentOrFuture("December 2024", now))
	assert.False(t, IsCurrentOrFuture("garbage", now))
}
