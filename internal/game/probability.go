package game

import "math"

// FaceProbability is the chance that one fair die shows a given face.
const FaceProbability = 1.0 / 6.0

// ProbAtLeast returns P(at least n of k unknown dice show a given face).
func ProbAtLeast(n, k int) float64 {
	return ProbAtLeastP(n, k, FaceProbability)
}

// ProbAtLeastP is the exact binomial upper tail
// sum_{i=n..k} C(k,i) p^i (1-p)^(k-i).
// It returns 1 when n <= 0 and 0 when n > k.
func ProbAtLeastP(n, k int, p float64) float64 {
	if n <= 0 {
		return 1.0
	}
	if n > k {
		return 0.0
	}
	if p <= 0 {
		return 0.0
	}
	if p >= 1 {
		return 1.0
	}

	lp, lq := math.Log(p), math.Log1p(-p)
	lk := lgamma(k + 1)
	term := func(i int) float64 {
		return math.Exp(lk - lgamma(i+1) - lgamma(k-i+1) + float64(i)*lp + float64(k-i)*lq)
	}

	// Always sum the side of the distribution below one half: near 1 the
	// long tail sum drifts by more than the gap between neighbours.
	// Either loop only ever adds non-negative terms, so the result stays
	// monotone in n.
	if float64(n) <= float64(k)*p {
		below := 0.0
		for i := 0; i < n; i++ {
			below += term(i)
		}
		if below > 1 {
			return 0
		}
		return 1 - below
	}
	total := 0.0
	for i := k; i >= n; i-- {
		total += term(i)
	}
	if total > 1 {
		return 1
	}
	return total
}

func lgamma(n int) float64 {
	v, _ := math.Lgamma(float64(n))
	return v
}

// ExpectedCount is the mean number of dice showing a face among k dice.
func ExpectedCount(k int) float64 {
	return float64(k) * FaceProbability
}
