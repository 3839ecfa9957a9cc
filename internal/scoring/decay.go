package scoring

// Age decay constants. Reviews keep full freshness for a month, then lose
// 4% per additional month down to a floor of 0.8.
const (
	decayGraceDays = 30.0
	decayPerPeriod = 0.04
	decayFloor     = 0.8
)

// AgeDecay converts a review's age into a freshness discount. It is consumed
// only by periodic re-aggregation jobs, never on the submission path, but it
// shares the scoring package's numeric contract and test coverage.
func AgeDecay(ageDays float64) float64 {
	if ageDays <= decayGraceDays {
		return 1.0
	}
	d := 1.0 - (ageDays/decayGraceDays-1)*decayPerPeriod
	if d < decayFloor {
		return decayFloor
	}
	return d
}
