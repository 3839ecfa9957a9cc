// Package scoring converts expert reviews into Knowledge Equity. Everything
// here is pure domain logic - no I/O, no clocks, no side effects. The
// submission coordinator feeds it consistent snapshots and persists whatever
// it computes.
package scoring

import (
	dErrors "kequity/pkg/domain-errors"
)

// Rating is one of the five fixed review outcomes.
type Rating string

const (
	RatingConfirmedCorrect      Rating = "confirmed_correct"
	RatingNovelInsight          Rating = "novel_insight"
	RatingValuableIncomplete    Rating = "valuable_incomplete"
	RatingIncorrectConstructive Rating = "incorrect_constructive"
	RatingNotCredible           Rating = "not_credible"
)

// ParseRating validates a rating at a trust boundary.
func ParseRating(raw string) (Rating, error) {
	r := Rating(raw)
	switch r {
	case RatingConfirmedCorrect, RatingNovelInsight, RatingValuableIncomplete,
		RatingIncorrectConstructive, RatingNotCredible:
		return r, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown rating: "+raw)
}

// Multiplier returns the quality multiplier for a rating. A not_credible vote
// zeroes its own KE contribution but is still recorded: it counts toward the
// review count and feeds the anomaly detector.
func (r Rating) Multiplier() float64 {
	switch r {
	case RatingConfirmedCorrect:
		return 1.0
	case RatingNovelInsight:
		return 1.3
	case RatingValuableIncomplete:
		return 0.7
	case RatingIncorrectConstructive:
		return 0.4
	case RatingNotCredible:
		return 0.0
	default:
		return 0.0
	}
}

// Kind classifies a contribution.
type Kind string

const (
	KindResearch           Kind = "research"
	KindExplanation        Kind = "explanation"
	KindBugAnalysis        Kind = "bug_analysis"
	KindStructuredArgument Kind = "structured_argument"
)

// ParseKind validates a contribution kind at a trust boundary.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	switch k {
	case KindResearch, KindExplanation, KindBugAnalysis, KindStructuredArgument:
		return k, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown contribution kind: "+raw)
}

// BaseKE returns the fixed base KE value for a contribution kind.
func (k Kind) BaseKE() int {
	switch k {
	case KindResearch:
		return 30
	case KindExplanation:
		return 20
	case KindBugAnalysis:
		return 25
	case KindStructuredArgument:
		return 22
	default:
		return 0
	}
}
