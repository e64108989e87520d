package ticks

import "math"

// eps bounds the zero-crossing and integrality tests.
const eps = 1e-10

// Weights scales the four sub-scores of a candidate tick grid.
// The combined score is their dot product with (simplicity, coverage,
// density, legibility).
type Weights struct {
	Simplicity float64
	Coverage   float64
	Density    float64
	Legibility float64
}

// Combine returns the weighted score of the four sub-scores.
func (w Weights) Combine(s, c, d, l float64) float64 {
	return w.Simplicity*s + w.Coverage*c + w.Density*d + w.Legibility*l
}

// rankScore rewards nice numbers listed earlier: 1 for the first entry,
// 0 for the last. A single-entry list scores 1.
func rankScore(rank, n int) float64 {
	if n == 1 {
		return 1
	}
	return float64(n-rank) / float64(n-1)
}

// simplicityMax is simplicity with the zero-crossing bonus assumed.
func simplicityMax(rank, n, j int) float64 {
	return rankScore(rank, n) + 1 - float64(j)
}

func simplicity(rank, n, j int, lMin, lMax, lStep float64) float64 {
	v := 0.0
	if onGrid(lMin, lStep) && lMin <= 0 && lMax >= 0 {
		v = 1
	}
	return rankScore(rank, n) + v - float64(j)
}

// onGrid reports whether zero falls on a multiple of step away from lMin,
// using the floored modulo.
func onGrid(lMin, step float64) bool {
	r := math.Mod(lMin, step)
	if r < 0 {
		r += step
	}
	return r < eps || step-r < eps
}

func coverageMax(dMin, dMax, span float64) float64 {
	r := dMax - dMin
	if span <= r {
		return 1
	}
	half := (span - r) / 2
	return 1 - (half*half)/((0.1*r)*(0.1*r))
}

func coverage(dMin, dMax, lMin, lMax float64) float64 {
	r := dMax - dMin
	hi, lo := dMax-lMax, dMin-lMin
	return 1 - 0.5*(hi*hi+lo*lo)/((0.1*r)*(0.1*r))
}

func densityMax(k, m int) float64 {
	if k < m {
		return 1
	}
	return 2 - float64(k-1)/float64(m-1)
}

func density(k, m int, dMin, dMax, lMin, lMax float64) float64 {
	r := float64(k-1) / (lMax - lMin)
	rt := float64(m-1) / (math.Max(lMax, dMax) - math.Min(lMin, dMin))
	return 2 - math.Max(r/rt, rt/r)
}

// legibility is neutral: label overlap is not modelled.
func legibility(lMin, lMax, lStep float64) float64 {
	return 1
}
