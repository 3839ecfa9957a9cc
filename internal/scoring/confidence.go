package scoring

// ConfidenceFactor converts a self-reported confidence (0-100) into a
// damping factor in [0, 1]. The curve is piecewise and convex near the top:
// low-confidence reviews are penalized hard (max 0.2 below the 0.4 band) and
// only genuinely confident reviews approach full weight, so always claiming
// maximum confidence is the only way to maximize influence - and that
// pattern is exactly what the anomaly detector flags.
func ConfidenceFactor(confidence int) float64 {
	c := float64(confidence) / 100
	switch {
	case c < 0:
		return 0
	case c < 0.4:
		return c * 0.5
	case c < 0.7:
		return 0.2 + (c - 0.4)
	default:
		f := 0.5 + (c-0.7)*1.67
		if f > 1.0 {
			return 1.0
		}
		return f
	}
}
