// Package grade computes weighted course percentages.
package grade

import "context"

// Entry is one graded assignment for a student.
type Entry struct {
	// Score is the number of points earned.
	Score float64
	// Points is the point value of the assignment.
	Points float64
	// Weight is the weight of the assignment's category.
	Weight float64
}

// Source is anything that can look up the graded entries for
// one student in one class.
type Source interface {
	Entries(ctx context.Context, classID, studentID string) ([]Entry, error)
}

// Percent computes the weighted percentage for a set of graded entries.
//
// Each entry contributes score/points scaled by its category weight, and
// the sum is normalized by the total weight of the entries that were
// counted, not the total weight of every category in the class. Entries
// worth zero or fewer points are skipped. The result is not rounded and
// a student with nothing to count gets zero.
func Percent(entries []Entry) float64 {
	var sum, total float64
	for _, e := range entries {
		if e.Points <= 0 {
			continue
		}
		sum += (e.Score / e.Points) * e.Weight
		total += e.Weight
	}
	if total > 0 {
		return (sum / total) * 100
	}
	return 0
}

// Report will get the entries for a student from a Source and
// compute their weighted percentage.
func Report(ctx context.Context, src Source, classID, studentID string) (float64, error) {
	entries, err := src.Entries(ctx, classID, studentID)
	if err != nil {
		return 0, err
	}
	return Percent(entries), nil
}
