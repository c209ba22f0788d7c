package graph

import (
	"sort"
)

// Graph is an immutable, validated DAG of stages. It is safe to share across
// concurrent executions; construction is the only mutating step.
type Graph struct {
	stages    []Stage
	seeds     map[string]struct{}
	producers map[string]int // output key -> index into stages
	order     []int          // topological plan, indices into stages
}

// New validates the given stages against the seed keys and builds the
// execution plan. It fails closed: on any violation no usable Graph is
// returned.
//
// Validation performs, in order: output key uniqueness, input closure over
// seed keys and produced keys, and cycle detection. The topological order is
// computed once here; ties are broken by declaration order so that repeated
// runs over the same stage set are reproducible.
func New(stages []Stage, seeds ...string) (*Graph, error) {
	g := &Graph{
		stages:    make([]Stage, len(stages)),
		seeds:     make(map[string]struct{}, len(seeds)),
		producers: make(map[string]int),
	}
	copy(g.stages, stages)
	for _, s := range seeds {
		g.seeds[s] = struct{}{}
	}

	seen := make(map[string]struct{}, len(stages))
	for i, st := range g.stages {
		if _, dup := seen[st.Name()]; dup {
			return nil, newError(DuplicateOutput, "stage %q declared twice", st.Name())
		}
		seen[st.Name()] = struct{}{}

		for _, key := range st.Outputs() {
			if prev, ok := g.producers[key]; ok {
				return nil, newError(DuplicateOutput,
					"key %q produced by both %q and %q", key, g.stages[prev].Name(), st.Name())
			}
			if _, isSeed := g.seeds[key]; isSeed {
				return nil, newError(DuplicateOutput,
					"key %q produced by %q shadows a seed key", key, st.Name())
			}
			g.producers[key] = i
		}
	}

	for _, st := range g.stages {
		for _, key := range st.Inputs() {
			if _, ok := g.seeds[key]; ok {
				continue
			}
			if _, ok := g.producers[key]; ok {
				continue
			}
			return nil, newError(UnsatisfiedInput,
				"stage %q requires key %q, which no stage produces and no seed supplies", st.Name(), key)
		}
	}

	order, err := g.topoSort()
	if err != nil {
		return nil, err
	}
	g.order = order

	return g, nil
}

// topoSort runs Kahn's algorithm over the edges induced by key declarations.
// The ready set is drained in declaration order, which makes the plan
// deterministic for a given stage slice.
func (g *Graph) topoSort() ([]int, error) {
	n := len(g.stages)
	indegree := make([]int, n)
	dependents := make([][]int, n)

	for i, st := range g.stages {
		deps := make(map[int]struct{})
		for _, key := range st.Inputs() {
			if producer, ok := g.producers[key]; ok && producer != i {
				deps[producer] = struct{}{}
			}
		}
		indegree[i] = len(deps)
		for p := range deps {
			dependents[p] = append(dependents[p], i)
		}
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		sort.Ints(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, d := range dependents[next] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(order) != n {
		var stuck []string
		for i, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, g.stages[i].Name())
			}
		}
		sort.Strings(stuck)
		return nil, newError(Cycle, "dependency cycle involving stages %v", stuck)
	}

	return order, nil
}

// Plan returns the stages in execution order. The returned slice is a copy;
// the plan itself is fixed at construction.
func (g *Graph) Plan() []Stage {
	plan := make([]Stage, len(g.order))
	for i, idx := range g.order {
		plan[i] = g.stages[idx]
	}
	return plan
}

// Seeds returns the externally supplied keys the graph was validated against.
func (g *Graph) Seeds() []string {
	out := make([]string, 0, len(g.seeds))
	for s := range g.seeds {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stages in the graph.
func (g *Graph) Len() int { return len(g.stages) }

// Producer returns the stage producing the given key, or nil for seed and
// unknown keys.
func (g *Graph) Producer(key string) Stage {
	if i, ok := g.producers[key]; ok {
		return g.stages[i]
	}
	return nil
}
