package grading

// Calculate sums the selected subjects into a student aggregate. The
// denominator for both averages is the configured minimum subject count, so
// a student qualifying in fewer subjects is penalized proportionally. A zero
// minimum yields zero averages rather than a division by zero. The overall
// grade comes from a points-based resolution of the mean. Inputs are never
// mutated and no rounding happens here; callers round at the presentation
// boundary.
func Calculate(subjects []SubjectResult, minSubjects int, resolver *Resolver) Aggregate {
	var agg Aggregate
	for _, subject := range subjects {
		if !subject.Selected {
			continue
		}
		agg.TotalMarks += subject.Composite
		agg.TotalPoints += subject.Points
	}

	if minSubjects > 0 {
		agg.AverageMarks = agg.TotalMarks / float64(minSubjects)
		agg.MeanPoints = agg.TotalPoints / float64(minSubjects)
	}

	agg.Grade = NeutralGrade.Grade
	if resolver != nil {
		agg.Grade = resolver.ResolvePoints(agg.MeanPoints).Grade
	}

	return agg
}
