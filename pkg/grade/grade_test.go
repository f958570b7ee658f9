package grade

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

const epsilon = 1e-9

func eq(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		exp     float64
	}{
		{"empty", nil, 0},
		{"two halves", []Entry{{8, 10, 50}, {18, 20, 50}}, 85},
		{"single", []Entry{{5, 10, 30}}, 50},
		{"invalid points skipped", []Entry{{5, 10, 30}, {0, 0, 70}}, 50},
		{"negative points skipped", []Entry{{5, 10, 30}, {10, -10, 70}}, 50},
		{"only invalid", []Entry{{3, 0, 20}, {1, -1, 20}}, 0},
		{"zero weights", []Entry{{10, 10, 0}, {5, 10, 0}}, 0},
		{"perfect", []Entry{{10, 10, 25}, {20, 20, 75}}, 100},
		{"extra credit", []Entry{{12, 10, 100}}, 120},
		// weights do not need to add up to 100
		{"uneven weights", []Entry{{10, 10, 10}, {0, 10, 30}}, 25},
		{"same category", []Entry{{9, 10, 40}, {7, 10, 40}, {10, 20, 60}}, (0.9*40 + 0.7*40 + 0.5*60) / 140 * 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.entries); !eq(got, tt.exp) {
			t.Errorf("%s: Percent(%v) = %v, want %v", tt.name, tt.entries, got, tt.exp)
		}
	}
}

func TestPercent_SkipInvalid(t *testing.T) {
	valid := []Entry{{8, 10, 50}, {18, 20, 50}, {3, 4, 20}}
	base := Percent(valid)
	invalid := []Entry{{0, 0, 70}, {100, -5, 10}, {5, 0, 0}, {-1, -1, 1000}}
	for i := range invalid {
		entries := append([]Entry{}, valid...)
		entries = append(entries, invalid[:i+1]...)
		if got := Percent(entries); !eq(got, base) {
			t.Errorf("adding %v changed the result: got %v, want %v", invalid[:i+1], got, base)
		}
	}
}

func TestPercent_Order(t *testing.T) {
	entries := []Entry{
		{8, 10, 50}, {18, 20, 50}, {3, 4, 20},
		{0, 0, 70}, {45, 50, 15}, {1, 3, 5},
	}
	exp := Percent(entries)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := append([]Entry{}, entries...)
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := Percent(shuffled); !eq(got, exp) {
			t.Errorf("order changed the result: got %v, want %v", got, exp)
		}
	}
}

func TestPercent_NotRounded(t *testing.T) {
	got := Percent([]Entry{{1, 3, 100}})
	if got == math.Round(got*100)/100 {
		t.Errorf("result should not be rounded, got %v", got)
	}
	if !eq(got, 100.0/3.0) {
		t.Errorf("got %v, want %v", got, 100.0/3.0)
	}
}

type source map[string][]Entry

func (s source) Entries(_ context.Context, classID, studentID string) ([]Entry, error) {
	e, ok := s[classID+"/"+studentID]
	if !ok {
		return nil, errors.New("no entries")
	}
	return e, nil
}

func TestReport(t *testing.T) {
	src := source{"CS101-fall-01/s1": {{8, 10, 50}, {18, 20, 50}}}
	ctx := context.Background()
	p, err := Report(ctx, src, "CS101-fall-01", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !eq(p, 85) {
		t.Errorf("got %v, want 85", p)
	}
	if _, err = Report(ctx, src, "CS101-fall-01", "s2"); err == nil {
		t.Error("expected an error from the source")
	}
}
