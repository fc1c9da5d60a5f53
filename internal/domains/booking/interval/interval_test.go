package interval_test

import (
	"cowork/internal/domains/booking/interval"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day = time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func span(startHour, startMinute, endHour, endMinute int) interval.Interval {
	return interval.Interval{Start: at(startHour, startMinute), End: at(endHour, endMinute)}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{name: "valid", start: at(10, 0), end: at(11, 0)},
		{name: "equal bounds", start: at(10, 0), end: at(10, 0), wantErr: interval.ErrInvalidInterval},
		{name: "reversed", start: at(11, 0), end: at(10, 0), wantErr: interval.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interval.New(tt.start, tt.end)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, interval.Interval{}, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.start, got.Start)
			assert.Equal(t, tt.end, got.End)
			assert.Equal(t, time.Hour, got.Duration())
		})
	}
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		name     string
		existing interval.Interval
		cand     interval.Interval
		want     bool
	}{
		{name: "touching does not conflict", existing: span(10, 0, 11, 0), cand: span(11, 0, 12, 0), want: false},
		{name: "touching before does not conflict", existing: span(11, 0, 12, 0), cand: span(10, 0, 11, 0), want: false},
		{name: "partial overlap", existing: span(10, 0, 12, 0), cand: span(11, 0, 13, 0), want: true},
		{name: "containment", existing: span(10, 0, 14, 0), cand: span(11, 0, 12, 0), want: true},
		{name: "contained by candidate", existing: span(11, 0, 12, 0), cand: span(10, 0, 14, 0), want: true},
		{name: "identical", existing: span(11, 30, 12, 30), cand: span(11, 30, 12, 30), want: true},
		{name: "disjoint", existing: span(8, 0, 9, 0), cand: span(10, 0, 11, 0), want: false},
		{name: "empty candidate inside", existing: span(10, 0, 12, 0), cand: span(11, 0, 11, 0), want: false},
		{name: "empty candidate at start", existing: span(10, 0, 12, 0), cand: span(10, 0, 10, 0), want: false},
		{name: "empty existing inside", existing: span(11, 0, 11, 0), cand: span(10, 0, 12, 0), want: false},
		{name: "both empty at same instant", existing: span(11, 0, 11, 0), cand: span(11, 0, 11, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interval.Conflicts(tt.existing, tt.cand))
		})
	}
}

func randomInterval(rng *rand.Rand) interval.Interval {
	start := day.Add(time.Duration(rng.IntN(48)) * 15 * time.Minute)

	return interval.Interval{Start: start, End: start.Add(time.Duration(rng.IntN(8)) * 15 * time.Minute)}
}

func TestConflicts_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 2000 {
		a, b := randomInterval(rng), randomInterval(rng)

		assert.Equal(t, interval.Conflicts(a, b), interval.Conflicts(b, a), "a=%v b=%v", a, b)
	}
}

func TestConflicts_Reflexive(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 2000 {
		a := randomInterval(rng)

		assert.Equal(t, a.Start.Before(a.End), interval.Conflicts(a, a), "a=%v", a)
	}
}

func TestContains(t *testing.T) {
	iv := span(11, 30, 12, 30)

	assert.True(t, iv.Contains(at(11, 30)))
	assert.True(t, iv.Contains(at(12, 29)))
	assert.False(t, iv.Contains(at(12, 30)))
	assert.False(t, iv.Contains(at(11, 29)))
}

func TestEmpty(t *testing.T) {
	assert.True(t, span(11, 0, 11, 0).Empty())
	assert.True(t, span(12, 0, 11, 0).Empty())
	assert.False(t, span(11, 0, 11, 15).Empty())
}

func TestIsAdmissible(t *testing.T) {
	existing := []interval.Interval{span(9, 0, 10, 0), span(11, 30, 12, 30)}

	assert.True(t, interval.IsAdmissible(span(10, 0, 11, 30), existing))
	assert.True(t, interval.IsAdmissible(span(12, 30, 13, 30), existing))
	assert.False(t, interval.IsAdmissible(span(12, 0, 12, 15), existing))
	assert.False(t, interval.IsAdmissible(span(8, 0, 18, 0), existing))
	assert.True(t, interval.IsAdmissible(span(8, 0, 18, 0), nil))
	assert.True(t, interval.IsAdmissible(span(11, 45, 11, 45), existing))
}
