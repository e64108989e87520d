package ticks_test

import (
	"fmt"

	"github.com/matzehuels/svgplot/pkg/ticks"
)

func ExampleGenerate() {
	res, err := ticks.Generate(0, 4.3)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Min(), res.Max(), res.Step(), res.Count())
	fmt.Println(res.Labels(""))
	// Output:
	// 0 4 1 5
	// [0 1 2 3 4]
}

func ExampleGenerate_strict() {
	res, err := ticks.Generate(0, 4.3, ticks.WithFlexible(false))
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Labels(""))
	fmt.Println(res.DomainLabels(""))
	// Output:
	// [0 1 2 3 4 5]
	// [0 1 2 3 4]
}

func ExampleResult_DomainLabels() {
	res, err := ticks.Generate(0.12, 0.97, ticks.WithDensity(5))
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Labels(""))
	fmt.Println(res.DomainLabels(""))
	// Output:
	// [0.00 0.25 0.50 0.75 1.00]
	// [0.25 0.50 0.75]
}

func ExampleResult_Stats() {
	res, err := ticks.Generate(-7.3, 12.9)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Stats().Termination)
	// Output:
	// no better j possible
}
