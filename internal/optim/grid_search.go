package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/circlesim/internal/dynamo"
)

// knobs are the configuration fields a grid search may vary.
var knobs = map[string]func(*dynamo.Config, float64){
	"gravity":     func(c *dynamo.Config, v float64) { c.Gravity = v },
	"restitution": func(c *dynamo.Config, v float64) { c.Restitution = v },
	"speed_min":   func(c *dynamo.Config, v float64) { c.SpeedMin = v },
	"speed_max":   func(c *dynamo.Config, v float64) { c.SpeedMax = v },
	"body_radius": func(c *dynamo.Config, v float64) {
		c.BodyRadius = v
		c.PlacementMargin = 2 * v
	},
	"container_radius": func(c *dynamo.Config, v float64) { c.Container.Radius = v },
}

// Knobs lists the parameter names accepted by ParseParam.
func Knobs() []string {
	names := make([]string, 0, len(knobs))
	for k := range knobs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Param struct {
	Name   string
	Values []float64
}

// ParseParam reads "name=v1,v2,...".
func ParseParam(s string) (Param, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return Param{}, fmt.Errorf("param %q: expected name=v1,v2", s)
	}
	name = strings.TrimSpace(name)
	if _, known := knobs[name]; !known {
		return Param{}, fmt.Errorf("param %q: unknown (available: %v)", name, Knobs())
	}

	p := Param{Name: name}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Param{}, fmt.Errorf("param %s: %w", name, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

// Point is one evaluated grid cell.
type Point struct {
	Params    map[string]float64
	Score     float64
	Completed int
	Runs      int
}

// Score reduces the results of one grid cell to a number; lower is better.
type Score func(results []*dynamo.Result) float64

// MeanSteps is the mean steps to completion over completed runs, or +Inf
// when none completed.
func MeanSteps(results []*dynamo.Result) float64 {
	total, n := 0, 0
	for _, r := range results {
		if r.Completed {
			total += r.StepsTaken
			n++
		}
	}
	if n == 0 {
		return math.Inf(1)
	}
	return float64(total) / float64(n)
}

// GridSearch runs an ensemble for every combination of parameter values.
type GridSearch struct {
	params    []Param
	runs      int
	seedStart int64
	maxSteps  int
}

func NewGridSearch(params []Param, runs int, seedStart int64, maxSteps int) *GridSearch {
	return &GridSearch{params: params, runs: runs, seedStart: seedStart, maxSteps: maxSteps}
}

// Search evaluates every cell and returns them in grid order together with
// the best one. Cells whose configuration is invalid are skipped.
func (g *GridSearch) Search(ctx context.Context, base dynamo.Config, score Score) (Point, []Point, error) {
	if g.runs < 1 {
		return Point{}, nil, fmt.Errorf("%w: runs per cell must be at least 1, got %d", dynamo.ErrInvalidConfig, g.runs)
	}

	var points []Point
	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), score, &points)
	if err != nil {
		return Point{}, points, err
	}
	if len(points) == 0 {
		return Point{}, nil, fmt.Errorf("grid search: no valid configuration")
	}

	best := points[0]
	for _, p := range points[1:] {
		if p.Score < best.Score {
			best = p
		}
	}
	return best, points, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg dynamo.Config,
	current map[string]float64,
	score Score,
	points *[]Point,
) error {
	if depth == len(g.params) {
		if cfg.Validate() != nil {
			return nil
		}

		results, err := dynamo.NewEnsemble(cfg, g.runs, g.seedStart, nil).Run(ctx, g.maxSteps)
		if err != nil {
			return err
		}

		p := Point{Params: make(map[string]float64, len(current)), Score: score(results), Runs: len(results)}
		for k, v := range current {
			p.Params[k] = v
		}
		for _, r := range results {
			if r.Completed {
				p.Completed++
			}
		}
		*points = append(*points, p)
		return nil
	}

	param := g.params[depth]
	for _, val := range param.Values {
		next := cfg
		knobs[param.Name](&next, val)
		current[param.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, current, score, points); err != nil {
			return err
		}
	}
	delete(current, param.Name)
	return nil
}
