// Package ticks places axis tick labels using the Extended Wilkinson
// algorithm.
//
// # Overview
//
// Given a data domain [dMin, dMax] and a target tick count m, [Generate]
// searches tick grids of the form
//
//	step = j · q · 10^z
//	lMin = start · step / j
//	lMax = lMin + step · (k − 1)
//
// where q comes from an ordered list of "nice" numbers, j is a range
// extension multiplier, k the tick count and z a power of ten. Each grid is
// scored on four criteria:
//
//   - Simplicity: earlier nice numbers, j = 1 and a grid through zero score higher
//   - Coverage: the tick range should hug the domain
//   - Density: the tick count should be close to m
//   - Legibility: neutral (always 1)
//
// The combined score is the dot product with [Weights].
//
// # Search
//
// The search runs j → q → k → z → start. Every level compares an upper
// bound of the score reachable below it with the best score found so far
// and stops early when the bound cannot win. The reason each loop ended is
// recorded as an [Exit] in the result's [Stats]. Ties keep the first grid
// found.
//
// # Usage
//
//	res, err := ticks.Generate(0, 4.3)
//	if err != nil {
//	    return err
//	}
//	for i, v := range res.DomainPositions() {
//	    fmt.Println(v, res.DomainLabels("")[i])
//	}
//
// Options override the defaults:
//
//	res, err := ticks.Generate(lo, hi,
//	    ticks.WithDensity(8),
//	    ticks.WithFlexible(false),
//	)
//
// # Reference
//
// J. Talbot, S. Lin, P. Hanrahan. "An Extension of Wilkinson's Algorithm
// for Positioning Tick Labels on Axes". InfoVis 2010.
package ticks
