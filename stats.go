package analyzer

import "math"

// Sample statistics (ddof=1) used by the factor engine.

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVariance is the unbiased variance, NaN for fewer than 2 samples.
func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func sampleStd(xs []float64) float64 {
	return math.Sqrt(sampleVariance(xs))
}

// sampleCovariance is the unbiased covariance of two equal-length samples.
func sampleCovariance(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return math.NaN()
	}
	mx, my := mean(xs), mean(ys)
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs)-1)
}

// correlation is the Pearson correlation coefficient.
func correlation(xs, ys []float64) float64 {
	sx, sy := sampleStd(xs), sampleStd(ys)
	if sx == 0 || sy == 0 {
		return math.NaN()
	}
	return sampleCovariance(xs, ys) / (sx * sy)
}
