// Package grading turns confirmed raw exam scores into subject grades,
// student aggregates, ranks and historical trends. Everything here is a pure
// function over already-fetched rows: the package never touches a database,
// a session, or a clock, so each stage can be tested in isolation and
// per-student computations can run in parallel without changing results.
//
// Pipeline: raw results -> compose -> resolve -> select -> calculate -> rank.
package grading

import "github.com/shulehub/matokeo-api/internal/models"

// SubjectResult is one subject's computed outcome for a student in an exam.
type SubjectResult struct {
	SubjectID uint
	Name      string
	Type      models.SubjectType
	Composite float64
	Grade     string
	Points    float64
	Selected  bool
}

// Aggregate is a student's overall outcome for one exam. Average marks and
// mean points always divide by the exam's configured minimum subject count,
// never by the number of subjects actually selected.
type Aggregate struct {
	TotalMarks   float64
	TotalPoints  float64
	AverageMarks float64
	MeanPoints   float64
	Grade        string
}

// Result pairs a student with their subject breakdown, aggregate and ranks.
type Result struct {
	Student    models.Student
	Subjects   []SubjectResult
	Aggregate  Aggregate
	ClassRank  int
	StreamRank int
}
