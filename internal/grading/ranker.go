package grading

import "sort"

// Rank orders results by mean points descending and assigns dense ranks:
// tied values share a rank and the next distinct value advances it by one.
// A stream rank is assigned over the same order restricted to each stream.
// Datasets that predate mean points (every mean zero, some totals not) fall
// back to ranking by total points. The input slice is not modified.
func Rank(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	if len(out) == 0 {
		return out
	}

	key := func(r Result) float64 { return r.Aggregate.MeanPoints }
	if legacyDataset(out) {
		key = func(r Result) float64 { return r.Aggregate.TotalPoints }
	}

	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) > key(out[j])
	})

	rank := 0
	var previous float64
	for i := range out {
		value := key(out[i])
		if rank == 0 || value < previous {
			rank++
		}
		out[i].ClassRank = rank
		previous = value
	}

	type streamCursor struct {
		rank     int
		previous float64
	}
	streams := make(map[string]*streamCursor)
	for i := range out {
		value := key(out[i])
		cursor, ok := streams[out[i].Student.Stream]
		if !ok {
			cursor = &streamCursor{}
			streams[out[i].Student.Stream] = cursor
		}
		if cursor.rank == 0 || value < cursor.previous {
			cursor.rank++
		}
		out[i].StreamRank = cursor.rank
		cursor.previous = value
	}

	return out
}

// legacyDataset reports whether every mean is zero while totals carry signal.
func legacyDataset(results []Result) bool {
	sawTotal := false
	for _, r := range results {
		if r.Aggregate.MeanPoints != 0 {
			return false
		}
		if r.Aggregate.TotalPoints != 0 {
			sawTotal = true
		}
	}
	return sawTotal
}
