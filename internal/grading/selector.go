package grading

import (
	"sort"

	"github.com/shulehub/matokeo-api/internal/models"
)

// Caps applied by the typed selection policy.
const (
	MaxCompulsorySelected = 5
	MaxElectiveSelected   = 2
)

// SelectTyped applies the compulsory/elective policy used when subjects are
// paper-composed: every compulsory subject counts in aggregation order up to
// the cap, then the best electives by points fill the remaining slots.
// Subjects with a zero composite never qualify. The returned slice carries
// the full subject list with Selected flags set; the input is not mutated.
func SelectTyped(subjects []SubjectResult) []SubjectResult {
	out := make([]SubjectResult, len(subjects))
	copy(out, subjects)

	compulsory := 0
	electives := make([]int, 0, len(out))
	for i := range out {
		out[i].Selected = false
		if out[i].Composite <= 0 {
			continue
		}
		if out[i].Type == models.SubjectTypeElective {
			electives = append(electives, i)
			continue
		}
		if compulsory < MaxCompulsorySelected {
			out[i].Selected = true
			compulsory++
		}
	}

	sort.SliceStable(electives, func(a, b int) bool {
		return out[electives[a]].Points > out[electives[b]].Points
	})
	for n, i := range electives {
		if n == MaxElectiveSelected {
			break
		}
		out[i].Selected = true
	}

	return out
}

// SelectBestN applies the best-N policy: all qualifying subjects ranked by
// points descending, the top n selected.
func SelectBestN(subjects []SubjectResult, n int) []SubjectResult {
	out := make([]SubjectResult, len(subjects))
	copy(out, subjects)

	qualifying := make([]int, 0, len(out))
	for i := range out {
		out[i].Selected = false
		if out[i].Composite > 0 {
			qualifying = append(qualifying, i)
		}
	}

	sort.SliceStable(qualifying, func(a, b int) bool {
		return out[qualifying[a]].Points > out[qualifying[b]].Points
	})
	for count, i := range qualifying {
		if count == n || n <= 0 {
			break
		}
		out[i].Selected = true
	}

	return out
}
