// Package indicators provides the rolling statistics shared by strategies
// and the backtest metrics calculator.
package indicators

import "math"

// MeanStd returns the mean and sample standard deviation of xs. Fewer than
// two observations yield a zero deviation.
func MeanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}

// RollingStd is the sample stdev of the window ending at index end-1. The
// window shrinks when fewer observations exist.
func RollingStd(xs []float64, window, end int) float64 {
	start := end - window
	if start < 0 {
		start = 0
	}
	_, std := MeanStd(xs[start:end])
	return std
}

// RollingSum is the sum of the window ending at index end-1, shrinking like
// RollingStd.
func RollingSum(xs []float64, window, end int) float64 {
	start := end - window
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, x := range xs[start:end] {
		sum += x
	}
	return sum
}

// PctChange is cur/prev - 1, with 0 for a zero base or a non-finite result.
func PctChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	c := cur/prev - 1
	if math.IsInf(c, 0) || math.IsNaN(c) {
		return 0
	}
	return c
}

// Returns converts a close series into simple daily returns. A zero close
// contributes a zero return rather than an infinity.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// MinPeriods is the observation floor for a rolling window: half the window,
// never below 5.
func MinPeriods(window int) int {
	if half := window / 2; half > 5 {
		return half
	}
	return 5
}

// MaxDrawdown is the largest fractional decline from a running peak.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	var maxDD float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
