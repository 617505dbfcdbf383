// Package optim sweeps run parameters over a grid.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Objective scores one parameter assignment; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Point is one evaluated grid node.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameter names for %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search evaluates every node of the grid in lexical order and returns the
// best assignment together with all points. Nodes whose objective fails or
// is NaN are recorded but never chosen. Cancelling ctx stops the sweep.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, []Point, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var points []Point

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		val, err := objective(ctx, params)
		points = append(points, Point{Params: params, Value: val, Err: err})
		if err == nil && val < best {
			best = val
			bestParams = params
		}
	})
	if err != nil {
		return bestParams, best, points, err
	}
	if bestParams == nil {
		return nil, best, points, fmt.Errorf("no grid point evaluated successfully")
	}
	return bestParams, best, points, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the swept parameter names in grid order.
func (g *GridSearch) Names() []string {
	return append([]string(nil), g.paramNames...)
}

// SortedKeys lists a parameter map deterministically.
func SortedKeys(params map[string]float64) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
