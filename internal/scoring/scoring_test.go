package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// ScoringSuite covers the numeric contracts of the KE models: determinism,
// monotonicity, clamping, and the aggregation invariants. These are pure
// functions, so every expectation here is exact and reproducible.
type ScoringSuite struct {
	suite.Suite
}

func TestScoringSuite(t *testing.T) {
	suite.Run(t, new(ScoringSuite))
}

func (s *ScoringSuite) TestRatingTable() {
	s.Run("multipliers are fixed", func() {
		s.Equal(1.0, RatingConfirmedCorrect.Multiplier())
		s.Equal(1.3, RatingNovelInsight.Multiplier())
		s.Equal(0.7, RatingValuableIncomplete.Multiplier())
		s.Equal(0.4, RatingIncorrectConstructive.Multiplier())
		s.Equal(0.0, RatingNotCredible.Multiplier())
	})

	s.Run("base KE is a fixed positive integer per kind", func() {
		s.Equal(30, KindResearch.BaseKE())
		s.Equal(20, KindExplanation.BaseKE())
		s.Equal(25, KindBugAnalysis.BaseKE())
		s.Equal(22, KindStructuredArgument.BaseKE())
	})

	s.Run("parse rejects unknown values", func() {
		_, err := ParseRating("amazing")
		s.Error(err)
		_, err = ParseKind("poem")
		s.Error(err)
	})

	s.Run("parse accepts every known value", func() {
		for _, raw := range []string{
			"confirmed_correct", "novel_insight", "valuable_incomplete",
			"incorrect_constructive", "not_credible",
		} {
			_, err := ParseRating(raw)
			s.NoError(err, raw)
		}
	})
}

func (s *ScoringSuite) TestReviewerWeight() {
	s.Run("floor applies at and below zero KE", func() {
		s.Equal(0.5, ReviewerWeight(0))
		s.Equal(0.5, ReviewerWeight(-10))
	})

	s.Run("known balance maps to expected weight", func() {
		// 0.5 + log10(1201) * 1.05
		s.InDelta(3.7335, ReviewerWeight(1200), 0.001)
	})

	s.Run("ceiling bounds influence regardless of balance", func() {
		s.Equal(8.0, ReviewerWeight(1_000_000_000_000))
	})

	s.Run("monotone in domain KE", func() {
		prev := ReviewerWeight(0)
		for _, ke := range []int64{1, 5, 10, 49, 50, 100, 500, 1200, 10_000, 1_000_000} {
			w := ReviewerWeight(ke)
			s.GreaterOrEqual(w, prev, "weight must never decrease, ke=%d", ke)
			prev = w
		}
	})

	s.Run("deterministic", func() {
		s.Equal(ReviewerWeight(1200), ReviewerWeight(1200))
	})
}

func (s *ScoringSuite) TestConfidenceFactor() {
	s.Run("low band is heavily penalized", func() {
		s.InDelta(0.0, ConfidenceFactor(0), 1e-9)
		s.InDelta(0.1, ConfidenceFactor(20), 1e-9)
		s.InDelta(0.195, ConfidenceFactor(39), 1e-9)
	})

	s.Run("bands join continuously", func() {
		s.InDelta(0.2, ConfidenceFactor(40), 1e-9)
		s.InDelta(0.5, ConfidenceFactor(70), 1e-9)
	})

	s.Run("top band is clamped to 1", func() {
		s.InDelta(0.9175, ConfidenceFactor(95), 1e-9)
		s.Equal(1.0, ConfidenceFactor(100))
	})

	s.Run("monotone in confidence", func() {
		prev := ConfidenceFactor(0)
		for c := 1; c <= 100; c++ {
			f := ConfidenceFactor(c)
			s.GreaterOrEqual(f, prev, "factor must never decrease, c=%d", c)
			prev = f
		}
	})
}

func (s *ScoringSuite) TestAgeDecay() {
	s.Run("no decay within grace period", func() {
		s.Equal(1.0, AgeDecay(0))
		s.Equal(1.0, AgeDecay(30))
	})

	s.Run("linear decay past grace period", func() {
		s.InDelta(0.96, AgeDecay(60), 1e-9)
		s.InDelta(0.92, AgeDecay(90), 1e-9)
	})

	s.Run("floored at 0.8", func() {
		s.Equal(0.8, AgeDecay(300))
		s.Equal(0.8, AgeDecay(10_000))
	})
}

func (s *ScoringSuite) TestEffortBonus() {
	s.Run("absent or zero effort earns nothing", func() {
		s.Equal(0.0, EffortBonus(0))
		s.Equal(0.0, EffortBonus(-5))
	})

	s.Run("scales with minutes and caps at ten percent", func() {
		s.InDelta(0.05, EffortBonus(300), 1e-9)
		s.InDelta(0.10, EffortBonus(600), 1e-9)
		s.InDelta(0.10, EffortBonus(6000), 1e-9)
	})
}

func (s *ScoringSuite) TestReviewKE() {
	s.Run("single confident expert review on research", func() {
		// weight ≈ 3.7335, factor = 0.9175, multiplier 1.0, base 30
		ke := ReviewKE(30, ReviewScore{
			Rating:           RatingConfirmedCorrect,
			Confidence:       95,
			ReviewerDomainKE: 1200,
		})
		s.Equal(int64(103), ke)
	})

	s.Run("not_credible zeroes the contribution regardless of weight and confidence", func() {
		ke := ReviewKE(30, ReviewScore{
			Rating:           RatingNotCredible,
			Confidence:       100,
			ReviewerDomainKE: 1_000_000,
		})
		s.Equal(int64(0), ke)
	})
}

func (s *ScoringSuite) TestTotalKE() {
	s.Run("zero reviews means zero KE regardless of base", func() {
		s.Equal(int64(0), TotalKE(KindResearch, 600, nil))
		s.Equal(int64(0), TotalKE(KindResearch, 600, []ReviewScore{}))
	})

	s.Run("single review aggregate equals that review's KE", func() {
		reviews := []ReviewScore{{
			Rating:           RatingConfirmedCorrect,
			Confidence:       95,
			ReviewerDomainKE: 1200,
		}}
		s.Equal(int64(103), TotalKE(KindResearch, 0, reviews))
	})

	s.Run("aggregate is a weighted average, not a sum", func() {
		one := []ReviewScore{{Rating: RatingConfirmedCorrect, Confidence: 80, ReviewerDomainKE: 100}}
		many := append([]ReviewScore{}, one[0], one[0], one[0], one[0])
		// Identical reviews must not inflate the aggregate.
		s.Equal(TotalKE(KindResearch, 0, one), TotalKE(KindResearch, 0, many))
	})

	s.Run("high-weight reviewers dominate the average", func() {
		expertHigh := ReviewScore{Rating: RatingConfirmedCorrect, Confidence: 90, ReviewerDomainKE: 5000}
		noviceLow := ReviewScore{Rating: RatingIncorrectConstructive, Confidence: 90, ReviewerDomainKE: 0}

		total := TotalKE(KindResearch, 0, []ReviewScore{expertHigh, noviceLow})
		base := EffectiveBaseKE(KindResearch, 0)
		expertAlone := ReviewKE(base, expertHigh)
		noviceAlone := ReviewKE(base, noviceLow)

		// The blend sits strictly between the two but closer to the expert.
		s.Greater(total, noviceAlone)
		s.Less(total, expertAlone)
		s.Greater(total, (expertAlone+noviceAlone)/2)
	})

	s.Run("independent of review ordering", func() {
		reviews := []ReviewScore{
			{Rating: RatingNovelInsight, Confidence: 85, ReviewerDomainKE: 700},
			{Rating: RatingValuableIncomplete, Confidence: 55, ReviewerDomainKE: 20},
			{Rating: RatingNotCredible, Confidence: 95, ReviewerDomainKE: 3000},
		}
		want := TotalKE(KindBugAnalysis, 120, reviews)
		permuted := []ReviewScore{reviews[2], reviews[0], reviews[1]}
		s.Equal(want, TotalKE(KindBugAnalysis, 120, permuted))
	})

	s.Run("effort bonus raises the post-bonus base", func() {
		reviews := []ReviewScore{{Rating: RatingConfirmedCorrect, Confidence: 100, ReviewerDomainKE: 0}}
		plain := TotalKE(KindResearch, 0, reviews)
		boosted := TotalKE(KindResearch, 600, reviews)
		s.Equal(int64(15), plain)   // 30 * 0.5 * 1.0 * 1.0
		s.Equal(int64(17), boosted) // 33 * 0.5 -> 16.5, rounds half away from zero
	})

	s.Run("deterministic across repeated calls", func() {
		reviews := []ReviewScore{
			{Rating: RatingConfirmedCorrect, Confidence: 62, ReviewerDomainKE: 333},
			{Rating: RatingNovelInsight, Confidence: 71, ReviewerDomainKE: 12},
		}
		first := TotalKE(KindExplanation, 45, reviews)
		for i := 0; i < 10; i++ {
			s.Equal(first, TotalKE(KindExplanation, 45, reviews))
		}
	})
}

func (s *ScoringSuite) TestReviewerReward() {
	s.Run("confident reviewer earns a share of the new total", func() {
		// round(max(1, 103 * 0.15 * 0.9175)) = round(14.175)
		s.Equal(int64(14), ReviewerReward(103, 95))
	})

	s.Run("floor of one on tiny contributions", func() {
		s.Equal(int64(1), ReviewerReward(0, 100))
		s.Equal(int64(1), ReviewerReward(2, 10))
	})
}
