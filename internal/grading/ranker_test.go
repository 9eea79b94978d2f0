package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shulehub/matokeo-api/internal/models"
)

func rankedResult(id uint, stream string, mean float64) Result {
	return Result{
		Student:   models.Student{ID: id, Stream: stream},
		Aggregate: Aggregate{MeanPoints: mean, TotalPoints: mean * 7},
	}
}

func TestRankDenseTieSharing(t *testing.T) {
	results := Rank([]Result{
		rankedResult(1, "North", 70),
		rankedResult(2, "North", 80),
		rankedResult(3, "South", 80),
	})

	require.Equal(t, []uint{2, 3, 1}, resultIDs(results))
	require.Equal(t, 1, results[0].ClassRank)
	require.Equal(t, 1, results[1].ClassRank)
	require.Equal(t, 2, results[2].ClassRank, "dense rank advances by one past a tie group")
}

func TestRankStreamScope(t *testing.T) {
	results := Rank([]Result{
		rankedResult(1, "North", 60),
		rankedResult(2, "South", 75),
		rankedResult(3, "North", 80),
		rankedResult(4, "South", 70),
	})

	byID := make(map[uint]Result, len(results))
	for _, r := range results {
		byID[r.Student.ID] = r
	}

	require.Equal(t, 1, byID[3].StreamRank)
	require.Equal(t, 2, byID[1].StreamRank)
	require.Equal(t, 1, byID[2].StreamRank)
	require.Equal(t, 2, byID[4].StreamRank)
}

func TestRankLegacyFallsBackToTotalPoints(t *testing.T) {
	results := Rank([]Result{
		{Student: models.Student{ID: 1}, Aggregate: Aggregate{TotalPoints: 40}},
		{Student: models.Student{ID: 2}, Aggregate: Aggregate{TotalPoints: 55}},
	})

	require.Equal(t, []uint{2, 1}, resultIDs(results))
	require.Equal(t, 1, results[0].ClassRank)
	require.Equal(t, 2, results[1].ClassRank)
}

func TestRankStableForTies(t *testing.T) {
	results := Rank([]Result{
		rankedResult(7, "North", 64),
		rankedResult(8, "North", 64),
	})

	require.Equal(t, []uint{7, 8}, resultIDs(results), "sort must be stable")
}

func TestRankEmpty(t *testing.T) {
	require.Empty(t, Rank(nil))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	input := []Result{rankedResult(1, "North", 50), rankedResult(2, "North", 90)}
	_ = Rank(input)
	require.Equal(t, uint(1), input[0].Student.ID)
	require.Zero(t, input[0].ClassRank)
}

func resultIDs(results []Result) []uint {
	ids := make([]uint, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Student.ID)
	}
	return ids
}
