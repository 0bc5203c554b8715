// Package demo holds the example task module served by the jobrun binary.
// The tasks double as integration fixtures.
package demo

import (
	"fmt"

	"github.com/taskworks/jobrun/pkg/conf"
	"github.com/taskworks/jobrun/pkg/jobrun"
)

// CompareStrategy is an enum parameter: only its member values parse.
type CompareStrategy string

const (
	BiggerBetter  CompareStrategy = "Bigger is better"
	SmallerBetter CompareStrategy = "Smaller is better"
)

// EnumValues returns the accepted member set.
func (CompareStrategy) EnumValues() []string {
	return []string{string(BiggerBetter), string(SmallerBetter)}
}

// PrintParams are the parameters of the print task.
type PrintParams struct {
	Name   string          `arg:"name" usage:"name to greet"`
	Params *conf.Namespace `arg:"params" usage:"values to sum"`
}

// Print greets and returns value1+value2 from the config as its exit code.
func Print(p PrintParams) (int, error) {
	v1, err := p.Params.Int("value1")
	if err != nil {
		return 0, err
	}
	v2, err := p.Params.Int("value2")
	if err != nil {
		return 0, err
	}
	fmt.Printf("Name is %s\n", p.Name)
	return v1 + v2, nil
}

// TypesParams exercises every scalar parameter kind.
type TypesParams struct {
	Integer         int             `arg:"integer" usage:"any integer"`
	Decimal         float64         `arg:"decimal" usage:"any decimal"`
	CompareStrategy CompareStrategy `arg:"compare_strategy" usage:"comparison direction"`
	Boolean         bool            `arg:"boolean" usage:"any flag" default:"false"`
}

// Types verifies the converted values arrived with their declared types.
func Types(p TypesParams) error {
	if p.Decimal <= float64(int(p.Decimal)) {
		return fmt.Errorf("decimal %v has no fractional part", p.Decimal)
	}
	switch p.CompareStrategy {
	case BiggerBetter, SmallerBetter:
	default:
		return fmt.Errorf("unexpected strategy %q", p.CompareStrategy)
	}
	return nil
}

// ListsParams takes a comma-separated list.
type ListsParams struct {
	Lists []string `arg:"lists" usage:"comma-separated values"`
}

// Lists prints and returns the element count.
func Lists(p ListsParams) (int, error) {
	fmt.Println(len(p.Lists))
	return len(p.Lists), nil
}

// Registry returns the demo module registry.
func Registry() *jobrun.Registry {
	reg := jobrun.NewRegistry()
	reg.Register("demo",
		jobrun.MustTask("print", "greet and sum two config values", Print),
		jobrun.MustTask("types", "check typed conversions", Types),
		jobrun.MustTask("lists", "count list elements", Lists),
	)
	return reg
}
