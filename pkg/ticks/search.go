package ticks

import "math"

// Exit names the condition that ended one loop of the search.
type Exit int

const (
	// ExitNone means the loop has not ended.
	ExitNone Exit = iota
	// ExitNoBetterJ ends the whole search: the simplicity bound for the
	// current (j, q) cannot beat the best score, and it only falls for
	// later q and larger j.
	ExitNoBetterJ
	// ExitNoBetterK moves to the next q: the density bound for this k and
	// every larger k cannot beat the best score.
	ExitNoBetterK
	// ExitNoBetterZ moves to the next k: the coverage bound for this step
	// and every larger step cannot beat the best score.
	ExitNoBetterZ
	// ExitNoStart moves to the next k: no grid alignment exists for the
	// step.
	ExitNoStart
	// ExitStepLimit ends the whole search at the configured step ceiling.
	ExitStepLimit

	exitCount
)

var exitNames = [exitCount]string{
	ExitNone:      "none",
	ExitNoBetterJ: "no better j possible",
	ExitNoBetterK: "no better k possible",
	ExitNoBetterZ: "no better z possible",
	ExitNoStart:   "no valid start",
	ExitStepLimit: "step limit reached",
}

func (e Exit) String() string {
	if e < 0 || e >= exitCount {
		return "unknown"
	}
	return exitNames[e]
}

// Breaks counts loop exits by reason.
type Breaks [exitCount]int

// Count returns how many loops ended with e.
func (b Breaks) Count(e Exit) int {
	if e < 0 || e >= exitCount {
		return 0
	}
	return b[e]
}

// Stats describes how a search ran.
type Stats struct {
	Termination Exit   // ExitNoBetterJ, or ExitStepLimit when the ceiling was hit
	Steps       int    // loop-body entries counted against the step limit
	Evaluated   int    // candidates that were fully scored
	Accepted    int    // times the best candidate was replaced
	Breaks      Breaks // loop exits by reason, including the termination
}

// candidate is one fully scored tick grid. Values are never modified after
// construction; a better grid replaces the pointer.
type candidate struct {
	score             float64
	lMin, lMax, lStep float64
	q                 float64
	k, j              int
}

// maxStart keeps start indices exactly representable as float64.
const maxStart = 1 << 53

type search struct {
	dMin, dMax float64
	m          int
	nice       []float64
	ranks      []int
	w          Weights
	flexible   bool
	maxSteps   int
	stats      Stats
}

func newSearch(dMin, dMax float64, c config) *search {
	ranks := make([]int, len(c.nice))
	for i, q := range c.nice {
		ranks[i] = i + 1
		for p := range i {
			if c.nice[p] == q {
				ranks[i] = p + 1
				break
			}
		}
	}
	return &search{
		dMin:     dMin,
		dMax:     dMax,
		m:        c.density,
		nice:     c.nice,
		ranks:    ranks,
		w:        c.weights,
		flexible: c.flexible,
		maxSteps: c.maxSteps,
	}
}

// run walks j → q → k → z → start. Each level returns the best candidate
// so far together with the reason it stopped.
func (s *search) run() (*candidate, Stats) {
	var best *candidate
	exit := ExitNone
	for j := 1; exit == ExitNone; j++ {
		best, exit = s.overNice(j, best)
	}
	s.stats.Termination = exit
	s.stats.Breaks[exit]++
	return best, s.stats
}

func (s *search) overNice(j int, best *candidate) (*candidate, Exit) {
	n := len(s.nice)
	for i, q := range s.nice {
		sm := simplicityMax(s.ranks[i], n, j)
		if beaten(best, s.w.Combine(sm, 1, 1, 1)) {
			return best, ExitNoBetterJ
		}
		var exit Exit
		best, exit = s.overCount(j, s.ranks[i], q, sm, best)
		if exit == ExitStepLimit {
			return best, exit
		}
	}
	return best, ExitNone
}

func (s *search) overCount(j, rank int, q, sm float64, best *candidate) (*candidate, Exit) {
	for k := 2; s.step(); k++ {
		dm := densityMax(k, s.m)
		if beaten(best, s.w.Combine(sm, 1, dm, 1)) {
			s.stats.Breaks[ExitNoBetterK]++
			return best, ExitNoBetterK
		}
		var exit Exit
		best, exit = s.overExponent(j, rank, q, k, sm, dm, best)
		if exit == ExitStepLimit {
			return best, exit
		}
	}
	return best, ExitStepLimit
}

func (s *search) overExponent(j, rank int, q float64, k int, sm, dm float64, best *candidate) (*candidate, Exit) {
	delta := ((s.dMax - s.dMin) * float64(j)) / (float64(k+1) * q)
	for z := ceilLog10(delta); s.step(); z++ {
		step := float64(j) * q * math.Pow10(z)
		span := step * float64(k-1)
		// Larger z only grows the step further.
		if !isFinite(step) || !isFinite(span) {
			s.stats.Breaks[ExitNoBetterZ]++
			return best, ExitNoBetterZ
		}
		cm := coverageMax(s.dMin, s.dMax, span)
		if beaten(best, s.w.Combine(sm, cm, dm, 1)) {
			s.stats.Breaks[ExitNoBetterZ]++
			return best, ExitNoBetterZ
		}

		lo := math.Floor(s.dMax/step)*float64(j) - float64((k-1)*j)
		hi := math.Ceil(s.dMin/step) * float64(j)
		if lo > hi || math.Abs(lo) > maxStart || math.Abs(hi) > maxStart {
			s.stats.Breaks[ExitNoStart]++
			return best, ExitNoStart
		}

		var exit Exit
		best, exit = s.overStart(j, rank, q, k, step, int64(lo), int64(hi), best)
		if exit == ExitStepLimit {
			return best, exit
		}
	}
	return best, ExitStepLimit
}

func (s *search) overStart(j, rank int, q float64, k int, step float64, lo, hi int64, best *candidate) (*candidate, Exit) {
	n := len(s.nice)
	for start := lo; start <= hi; start++ {
		if !s.step() {
			return best, ExitStepLimit
		}
		lMin := float64(start) * (step / float64(j))
		lMax := lMin + step*float64(k-1)
		lStep := step

		score := s.w.Combine(
			simplicity(rank, n, j, lMin, lMax, lStep),
			coverage(s.dMin, s.dMax, lMin, lMax),
			density(k, s.m, s.dMin, s.dMax, lMin, lMax),
			legibility(lMin, lMax, lStep),
		)
		s.stats.Evaluated++

		if !isFinite(lMin) || !isFinite(lMax) || !isFinite(score) {
			continue
		}
		if best != nil && score <= best.score {
			continue
		}
		if !s.flexible && (lMin > s.dMin || lMax < s.dMax) {
			continue
		}
		best = &candidate{score: score, lMin: lMin, lMax: lMax, lStep: lStep, q: q, k: k, j: j}
		s.stats.Accepted++
	}
	return best, ExitNone
}

// step charges one loop-body entry against the limit.
func (s *search) step() bool {
	if s.stats.Steps >= s.maxSteps {
		return false
	}
	s.stats.Steps++
	return true
}

// beaten reports whether an upper bound cannot improve on best.
func beaten(best *candidate, bound float64) bool {
	return best != nil && bound <= best.score
}

// ceilLog10 returns the smallest z with 10^z >= x, for x > 0.
func ceilLog10(x float64) int {
	z := int(math.Ceil(math.Log10(x)))
	for math.Pow10(z-1) >= x {
		z--
	}
	for math.Pow10(z) < x {
		z++
	}
	return z
}
