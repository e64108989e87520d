package ticks

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/svgplot/pkg/errors"
)

func TestGenerateKnownDomains(t *testing.T) {
	tests := []struct {
		name          string
		dMin, dMax    float64
		opts          []Option
		wantMin       float64
		wantMax       float64
		wantStep      float64
		wantCount     int
		wantNice      float64
		wantScore     float64
		wantLabels    []string
		wantDomLabels []string
	}{
		{
			name: "default", dMin: 0, dMax: 4.3,
			wantMin: 0, wantMax: 4, wantStep: 1, wantCount: 5, wantNice: 1,
			wantScore:     0.7346583738957997,
			wantLabels:    []string{"0", "1", "2", "3", "4"},
			wantDomLabels: []string{"0", "1", "2", "3", "4"},
		},
		{
			name: "strict covers domain", dMin: 0, dMax: 4.3, opts: []Option{WithFlexible(false)},
			wantMin: 0, wantMax: 5, wantStep: 1, wantCount: 6, wantNice: 1,
			wantScore:     0.4016585541734269,
			wantLabels:    []string{"0", "1", "2", "3", "4", "5"},
			wantDomLabels: []string{"0", "1", "2", "3", "4"},
		},
		{
			name: "margin expanded zero to four", dMin: -0.2, dMax: 4.2, opts: []Option{WithDensity(8)},
			wantMin: 0, wantMax: 4, wantStep: 0.5, wantCount: 9, wantNice: 5,
			wantScore:     0.7801062573789848,
			wantLabels:    []string{"0.0", "0.5", "1.0", "1.5", "2.0", "2.5", "3.0", "3.5", "4.0"},
			wantDomLabels: []string{"0.0", "0.5", "1.0", "1.5", "2.0", "2.5", "3.0", "3.5", "4.0"},
		},
		{
			name: "quarters", dMin: 0.12, dMax: 0.97, opts: []Option{WithDensity(5)},
			wantMin: 0, wantMax: 1, wantStep: 0.25, wantCount: 5, wantNice: 2.5,
			wantScore:     0.6382352941176471,
			wantLabels:    []string{"0.00", "0.25", "0.50", "0.75", "1.00"},
			wantDomLabels: []string{"0.25", "0.50", "0.75"},
		},
		{
			name: "negative to positive", dMin: -7.3, dMax: 12.9,
			wantMin: -5, wantMax: 15, wantStep: 5, wantCount: 5, wantNice: 5,
			wantScore:     0.46894487468548834,
			wantLabels:    []string{"-5", "0", "5", "10", "15"},
			wantDomLabels: []string{"-5", "0", "5", "10"},
		},
		{
			name: "small magnitudes", dMin: 0.001, dMax: 0.0042,
			wantMin: 0.001, wantMax: 0.004, wantStep: 0.001, wantCount: 4, wantNice: 1,
			wantScore:     0.677604166666667,
			wantLabels:    []string{"0.001", "0.002", "0.003", "0.004"},
			wantDomLabels: []string{"0.001", "0.002", "0.003", "0.004"},
		},
		{
			name: "hundreds", dMin: 100, dMax: 1000, opts: []Option{WithDensity(5)},
			wantMin: 0, wantMax: 1000, wantStep: 250, wantCount: 5, wantNice: 2.5,
			wantScore:     0.7265432098765432,
			wantLabels:    []string{"0", "250", "500", "750", "1000"},
			wantDomLabels: []string{"250", "500", "750", "1000"},
		},
		{
			name: "unit interval", dMin: 0, dMax: 1,
			wantMin: 0, wantMax: 1, wantStep: 0.5, wantCount: 3, wantNice: 5,
			wantScore:     0.7000000000000001,
			wantLabels:    []string{"0.0", "0.5", "1.0"},
			wantDomLabels: []string{"0.0", "0.5", "1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(tt.dMin, tt.dMax, tt.opts...)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if !closeTo(res.Min(), tt.wantMin) || !closeTo(res.Max(), tt.wantMax) || !closeTo(res.Step(), tt.wantStep) {
				t.Errorf("grid = [%v, %v] step %v, want [%v, %v] step %v",
					res.Min(), res.Max(), res.Step(), tt.wantMin, tt.wantMax, tt.wantStep)
			}
			if res.Count() != tt.wantCount {
				t.Errorf("Count() = %d, want %d", res.Count(), tt.wantCount)
			}
			if res.Nice() != tt.wantNice {
				t.Errorf("Nice() = %v, want %v", res.Nice(), tt.wantNice)
			}
			if math.Abs(res.Score()-tt.wantScore) > 1e-12 {
				t.Errorf("Score() = %v, want %v", res.Score(), tt.wantScore)
			}
			if got := res.Labels(""); !slices.Equal(got, tt.wantLabels) {
				t.Errorf("Labels() = %q, want %q", got, tt.wantLabels)
			}
			if got := res.DomainLabels(""); !slices.Equal(got, tt.wantDomLabels) {
				t.Errorf("DomainLabels() = %q, want %q", got, tt.wantDomLabels)
			}
		})
	}
}

func TestGenerateEchoesDomain(t *testing.T) {
	res, err := Generate(-7.3, 12.9)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.DomainMin() != -7.3 || res.DomainMax() != 12.9 {
		t.Errorf("domain = [%v, %v], want [-7.3, 12.9]", res.DomainMin(), res.DomainMax())
	}
	lo, hi := res.Extents()
	if lo != -7.3 || hi != 15 {
		t.Errorf("Extents() = (%v, %v), want (-7.3, 15)", lo, hi)
	}
	if !res.IsInteger() {
		t.Error("IsInteger() = false, want true")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		dMin, dMax float64
		opts       []Option
		code       errors.Code
	}{
		{"degenerate domain", 3, 3, nil, errors.ErrCodeInvalidDomain},
		{"reversed domain", 4, 1, nil, errors.ErrCodeInvalidDomain},
		{"NaN", math.NaN(), 1, nil, errors.ErrCodeInvalidDomain},
		{"infinite", 0, math.Inf(1), nil, errors.ErrCodeInvalidDomain},
		{"overflowing span", -math.MaxFloat64, math.MaxFloat64, nil, errors.ErrCodeInvalidDomain},
		{"unresolvable span", 1e15, 1e15 + 0.125, nil, errors.ErrCodeInvalidDomain},
		{"huge span", 0, 1e200, nil, errors.ErrCodeInvalidDomain},
		{"tiny span", 0, 1e-200, nil, errors.ErrCodeInvalidDomain},
		{"huge span across zero", -1e160, 1e160, nil, errors.ErrCodeInvalidDomain},
		{"empty nice numbers", 0, 1, []Option{WithNiceNumbers()}, errors.ErrCodeInvalidConfig},
		{"zero nice number", 0, 1, []Option{WithNiceNumbers(1, 0)}, errors.ErrCodeInvalidConfig},
		{"density below two", 0, 1, []Option{WithDensity(1)}, errors.ErrCodeInvalidConfig},
		{"negative weight", 0, 1, []Option{WithWeights(Weights{Simplicity: -1})}, errors.ErrCodeInvalidConfig},
		{"NaN weight", 0, 1, []Option{WithWeights(Weights{Coverage: math.NaN()})}, errors.ErrCodeInvalidConfig},
		{"zero step limit", 0, 1, []Option{WithMaxSteps(0)}, errors.ErrCodeInvalidConfig},
		{"exhausted before first candidate", 0, 4.3, []Option{WithMaxSteps(1)}, errors.ErrCodeSearchExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(tt.dMin, tt.dMax, tt.opts...)
			if err == nil {
				t.Fatalf("Generate() = %v, want %s error", res, tt.code)
			}
			if res != nil {
				t.Errorf("Generate() returned a result alongside %v", err)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Generate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGenerateStrictAcrossZero(t *testing.T) {
	// No two-tick grid covers these domains, so the exponent loop runs
	// until the step overflows before moving on to three ticks.
	tests := []struct {
		dMin, dMax       float64
		m                int
		wantMin, wantMax float64
		wantStep         float64
	}{
		{-16.365569725848104, 75.2567306046731, 2, -40, 80, 40},
		{-0.1566, 76.324, 7, -10, 80, 10},
		{-0.828, 6.671, 9, -1, 7, 1},
	}

	for _, tt := range tests {
		res, err := Generate(tt.dMin, tt.dMax, WithDensity(tt.m), WithFlexible(false))
		if err != nil {
			t.Fatalf("Generate(%v, %v, m=%d) error: %v", tt.dMin, tt.dMax, tt.m, err)
		}
		checkInvariants(t, res, false)
		if !closeTo(res.Min(), tt.wantMin) || !closeTo(res.Max(), tt.wantMax) || !closeTo(res.Step(), tt.wantStep) {
			t.Errorf("%v: grid = [%v, %v] step %v, want [%v, %v] step %v",
				res, res.Min(), res.Max(), res.Step(), tt.wantMin, tt.wantMax, tt.wantStep)
		}
		if st := res.Stats(); st.Termination != ExitNoBetterJ {
			t.Errorf("%v: Termination = %v, want %v", res, st.Termination, ExitNoBetterJ)
		}
	}
}

func TestGenerateTerminatesOnSimplicityBound(t *testing.T) {
	res, err := Generate(0, 4.3)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	st := res.Stats()
	if st.Termination != ExitNoBetterJ {
		t.Errorf("Termination = %v, want %v", st.Termination, ExitNoBetterJ)
	}
	if got := st.Breaks.Count(ExitNoBetterJ); got != 1 {
		t.Errorf("Breaks[%v] = %d, want 1", ExitNoBetterJ, got)
	}
	if st.Breaks.Count(ExitNoBetterK) == 0 {
		t.Errorf("Breaks[%v] = 0, want the density bound to prune", ExitNoBetterK)
	}
	if st.Breaks.Count(ExitStepLimit) != 0 {
		t.Errorf("Breaks[%v] = %d, want 0", ExitStepLimit, st.Breaks.Count(ExitStepLimit))
	}
	if st.Accepted < 1 || st.Evaluated < st.Accepted || st.Steps < st.Evaluated {
		t.Errorf("inconsistent stats %+v", st)
	}
}

func TestGenerateStepLimitKeepsBestSoFar(t *testing.T) {
	// j=1, q=1, k=2 first tries step 10 with starts -1 and 0; three steps
	// reach exactly the first candidate.
	res, err := Generate(0, 4.3, WithMaxSteps(3))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	st := res.Stats()
	if st.Termination != ExitStepLimit {
		t.Errorf("Termination = %v, want %v", st.Termination, ExitStepLimit)
	}
	if res.Min() != -10 || res.Max() != 0 || res.Step() != 10 || res.Count() != 2 {
		t.Errorf("got %v, want [-10, 0] step 10 with 2 ticks", res)
	}
	if st.Evaluated != 1 || st.Accepted != 1 || st.Steps != 3 {
		t.Errorf("stats = %+v, want 1 evaluated, 1 accepted, 3 steps", st)
	}
}

func TestGenerateZeroSimplicityWeightHitsStepLimit(t *testing.T) {
	w := Weights{Simplicity: 0, Coverage: 0.2, Density: 0.5, Legibility: 0.05}
	res, err := Generate(0, 4.3, WithWeights(w), WithMaxSteps(20000))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got := res.Stats().Termination; got != ExitStepLimit {
		t.Errorf("Termination = %v, want %v", got, ExitStepLimit)
	}
}

func TestGenerateAllZeroWeights(t *testing.T) {
	res, err := Generate(0, 10, WithWeights(Weights{}))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Score() != 0 {
		t.Errorf("Score() = %v, want 0", res.Score())
	}
	if st := res.Stats(); st.Termination != ExitNoBetterJ || st.Accepted != 1 {
		t.Errorf("stats = %+v, want first candidate kept and search ended by bound", st)
	}
}

func TestGenerateSingleNiceNumber(t *testing.T) {
	res, err := Generate(0, 97, WithNiceNumbers(2))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Nice() != 2 {
		t.Errorf("Nice() = %v, want 2", res.Nice())
	}
	if math.IsNaN(res.Score()) {
		t.Error("Score() is NaN")
	}
}

func TestGenerateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		dMin, dMax := randomDomain(rng)
		flexible := rng.Intn(2) == 0
		m := 2 + rng.Intn(9)

		res, err := Generate(dMin, dMax, WithDensity(m), WithFlexible(flexible))
		if err != nil {
			t.Fatalf("Generate(%v, %v, m=%d) error: %v", dMin, dMax, m, err)
		}
		checkInvariants(t, res, flexible)
	}
}

// TestGenerateNoLargerJWins cross-checks the global termination against an
// unpruned enumeration over a bounded range of j, k and z.
func TestGenerateNoLargerJWins(t *testing.T) {
	rng := rand.New(rand.NewSource(2010))
	for i := 0; i < 60; i++ {
		dMin, dMax := randomDomain(rng)
		m := 2 + rng.Intn(7)
		nice := slices.Clone(DefaultNiceNumbers)
		rng.Shuffle(len(nice), func(a, b int) { nice[a], nice[b] = nice[b], nice[a] })
		nice = nice[:1+rng.Intn(len(nice))]
		w := Weights{
			Simplicity: 0.05 + rng.Float64(),
			Coverage:   rng.Float64(),
			Density:    rng.Float64(),
			Legibility: rng.Float64(),
		}
		flexible := rng.Intn(2) == 0

		res, err := Generate(dMin, dMax, WithDensity(m), WithNiceNumbers(nice...), WithWeights(w), WithFlexible(flexible))
		if err != nil {
			t.Fatalf("Generate(%v, %v) error: %v", dMin, dMax, err)
		}
		c := newConfig([]Option{WithDensity(m), WithNiceNumbers(nice...), WithWeights(w), WithFlexible(flexible)})
		if best, ok := bruteForce(dMin, dMax, c, 4, 3*m+6, 5); ok && best.score > res.Score()+1e-9 {
			t.Errorf("case %d [%v, %v] m=%d Q=%v w=%+v: brute force found %+v, search returned %v",
				i, dMin, dMax, m, nice, w, best, res)
		}
	}
}

// bruteForce walks the same candidate space as the search without any of
// the score bounds.
func bruteForce(dMin, dMax float64, c config, maxJ, maxK, zCount int) (candidate, bool) {
	s := newSearch(dMin, dMax, c)
	n := len(c.nice)
	var best candidate
	found := false
	for j := 1; j <= maxJ; j++ {
		for i, q := range c.nice {
			for k := 2; k <= maxK; k++ {
				delta := ((dMax - dMin) * float64(j)) / (float64(k+1) * q)
				z0 := ceilLog10(delta)
				for z := z0; z < z0+zCount; z++ {
					step := float64(j) * q * math.Pow10(z)
					lo := math.Floor(dMax/step)*float64(j) - float64((k-1)*j)
					hi := math.Ceil(dMin/step) * float64(j)
					if lo > hi {
						break
					}
					for start := int64(lo); start <= int64(hi); start++ {
						lMin := float64(start) * (step / float64(j))
						lMax := lMin + step*float64(k-1)
						if !c.flexible && (lMin > dMin || lMax < dMax) {
							continue
						}
						score := c.weights.Combine(
							simplicity(s.ranks[i], n, j, lMin, lMax, step),
							coverage(dMin, dMax, lMin, lMax),
							density(k, c.density, dMin, dMax, lMin, lMax),
							legibility(lMin, lMax, step),
						)
						if !found || score > best.score {
							best = candidate{score: score, lMin: lMin, lMax: lMax, lStep: step, q: q, k: k, j: j}
							found = true
						}
					}
				}
			}
		}
	}
	return best, found
}

func randomDomain(rng *rand.Rand) (float64, float64) {
	scale := math.Pow10(rng.Intn(7) - 3)
	lo := (rng.Float64()*2 - 1) * 10 * scale
	span := (rng.Float64() + 0.01) * 10 * scale
	return lo, lo + span
}

func checkInvariants(t *testing.T, res *Result, flexible bool) {
	t.Helper()
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"Min", res.Min()}, {"Max", res.Max()}, {"Step", res.Step()}, {"Score", res.Score()},
	} {
		if !isFinite(v.val) {
			t.Fatalf("%v: %s() = %v, want finite", res, v.name, v.val)
		}
	}
	if res.Count() < 2 {
		t.Errorf("%v: Count() = %d, want >= 2", res, res.Count())
	}
	if res.Step() <= 0 {
		t.Errorf("%v: Step() = %v, want > 0", res, res.Step())
	}
	want := res.Min() + res.Step()*float64(res.Count()-1)
	if math.Abs(res.Max()-want) > 1e-9*math.Max(1, math.Abs(want)) {
		t.Errorf("%v: Max() = %v, want Min()+Step()*(Count()-1) = %v", res, res.Max(), want)
	}
	if !flexible && (res.Min() > res.DomainMin() || res.Max() < res.DomainMax()) {
		t.Errorf("%v: strict grid does not cover [%v, %v]", res, res.DomainMin(), res.DomainMax())
	}

	pos := res.Positions()
	if len(pos) != res.Count() {
		t.Errorf("%v: len(Positions()) = %d, want %d", res, len(pos), res.Count())
	}
	if !slices.IsSorted(pos) {
		t.Errorf("%v: Positions() not ascending: %v", res, pos)
	}
	for _, v := range res.DomainPositions() {
		if !slices.Contains(pos, v) {
			t.Errorf("%v: domain position %v not in Positions()", res, v)
		}
		if v < res.DomainMin() || v > res.DomainMax() {
			t.Errorf("%v: domain position %v outside [%v, %v]", res, v, res.DomainMin(), res.DomainMax())
		}
	}

	checkEqualDecimals(t, res.Labels(""))
	checkEqualDecimals(t, res.DomainLabels(""))
	if !slices.Equal(res.Labels(""), res.Labels("")) {
		t.Errorf("%v: Labels() not idempotent", res)
	}
}

func checkEqualDecimals(t *testing.T, labels []string) {
	t.Helper()
	for _, l := range labels {
		if decimals(l) != decimals(labels[0]) {
			t.Errorf("labels %q have differing decimal counts", labels)
			return
		}
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}
