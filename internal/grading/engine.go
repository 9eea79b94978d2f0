package grading

import "github.com/shulehub/matokeo-api/internal/models"

// Input carries the already-fetched rows for one exam scope. The engine
// treats every collection as read-only; any database-side precomputation
// must have completed before these rows were fetched.
type Input struct {
	Exam     models.Exam
	Students []models.Student
	Subjects []models.Subject
	Results  []models.RawResult
	Rules    []models.GradingRule
}

// ProcessExam runs the full pipeline for one exam: compose each subject's
// papers, resolve grades, select the counting subset, calculate aggregates
// and rank the cohort. Students with no countable result are left out, and
// a student's or subject's missing configuration degrades that unit to a
// zero value without disturbing the rest of the cohort.
func ProcessExam(in Input) []Result {
	resolver := NewResolver(in.Rules)
	scores := indexScores(in.Results)
	typed := usesTypedPolicy(in.Subjects)

	results := make([]Result, 0, len(in.Students))
	for _, student := range in.Students {
		bySubject, ok := scores[student.ID]
		if !ok {
			continue
		}

		subjects := make([]SubjectResult, 0, len(in.Subjects))
		for _, subject := range in.Subjects {
			entry, ok := bySubject[subject.ID]
			if !ok {
				continue
			}

			composite := composeSubject(subject, entry)
			grade := resolver.ResolveScore(composite)
			subjects = append(subjects, SubjectResult{
				SubjectID: subject.ID,
				Name:      subject.Name,
				Type:      subject.Type,
				Composite: composite,
				Grade:     grade.Grade,
				Points:    grade.Points,
			})
		}
		if len(subjects) == 0 {
			continue
		}

		if typed {
			subjects = SelectTyped(subjects)
		} else {
			subjects = SelectBestN(subjects, in.Exam.MinSubjects)
		}

		results = append(results, Result{
			Student:   student,
			Subjects:  subjects,
			Aggregate: Calculate(subjects, in.Exam.MinSubjects, resolver),
		})
	}

	return Rank(results)
}

// subjectScores holds one student's raw material for a single subject.
type subjectScores struct {
	direct *float64
	papers map[uint]float64
}

func indexScores(results []models.RawResult) map[uint]map[uint]*subjectScores {
	index := make(map[uint]map[uint]*subjectScores)
	for _, result := range results {
		if !result.Countable() {
			continue
		}

		bySubject, ok := index[result.StudentID]
		if !ok {
			bySubject = make(map[uint]*subjectScores)
			index[result.StudentID] = bySubject
		}

		entry, ok := bySubject[result.SubjectID]
		if !ok {
			entry = &subjectScores{papers: make(map[uint]float64)}
			bySubject[result.SubjectID] = entry
		}

		if result.PaperID != nil {
			entry.papers[*result.PaperID] = *result.Score
		} else {
			score := *result.Score
			entry.direct = &score
		}
	}

	return index
}

func composeSubject(subject models.Subject, entry *subjectScores) float64 {
	papers := activePapers(subject)
	if subject.UsesPapers && len(papers) > 0 {
		return ComposeScore(papers, entry.papers)
	}
	if entry.direct == nil {
		return 0
	}
	return SingleScore(*entry.direct)
}

func activePapers(subject models.Subject) []models.Paper {
	papers := make([]models.Paper, 0, len(subject.Papers))
	for _, paper := range subject.Papers {
		if paper.Active {
			papers = append(papers, paper)
		}
	}
	return papers
}

// usesTypedPolicy reports whether the cohort's curriculum is paper-weighted,
// which switches selection to the compulsory/elective policy.
func usesTypedPolicy(subjects []models.Subject) bool {
	for _, subject := range subjects {
		if subject.UsesPapers {
			return true
		}
	}
	return false
}
