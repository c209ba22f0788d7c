package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(name string, inputs, outputs []string) Stage {
	return StageFunc(name, inputs, outputs, func(ctx context.Context, in Values) (Values, error) {
		out := make(Values, len(outputs))
		for _, key := range outputs {
			out[key] = name
		}
		return out, nil
	})
}

func TestNewOrdersStagesByDependencies(t *testing.T) {
	// Declared intentionally out of dependency order.
	g, err := New([]Stage{
		passthrough("third", []string{"b"}, []string{"c"}),
		passthrough("second", []string{"a"}, []string{"b"}),
		passthrough("first", []string{"seed"}, []string{"a"}),
	}, "seed")
	require.NoError(t, err)

	plan := g.Plan()
	require.Len(t, plan, 3)
	assert.Equal(t, "first", plan[0].Name())
	assert.Equal(t, "second", plan[1].Name())
	assert.Equal(t, "third", plan[2].Name())
}

func TestNewBreaksTiesByDeclarationOrder(t *testing.T) {
	stages := []Stage{
		passthrough("zeta", []string{"seed"}, []string{"z"}),
		passthrough("alpha", []string{"seed"}, []string{"a"}),
		passthrough("mid", []string{"z", "a"}, []string{"m"}),
	}

	for i := 0; i < 5; i++ {
		g, err := New(stages, "seed")
		require.NoError(t, err)

		plan := g.Plan()
		require.Len(t, plan, 3)
		assert.Equal(t, "zeta", plan[0].Name())
		assert.Equal(t, "alpha", plan[1].Name())
		assert.Equal(t, "mid", plan[2].Name())
	}
}

func TestNewRejectsDuplicateOutput(t *testing.T) {
	_, err := New([]Stage{
		passthrough("one", []string{"seed"}, []string{"x"}),
		passthrough("two", []string{"seed"}, []string{"x"}),
	}, "seed")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, DuplicateOutput, gerr.Kind)
	assert.Contains(t, gerr.Detail, `"x"`)
}

func TestNewRejectsSeedShadowing(t *testing.T) {
	_, err := New([]Stage{
		passthrough("one", nil, []string{"seed"}),
	}, "seed")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, DuplicateOutput, gerr.Kind)
}

func TestNewRejectsDuplicateStageName(t *testing.T) {
	_, err := New([]Stage{
		passthrough("same", []string{"seed"}, []string{"x"}),
		passthrough("same", []string{"seed"}, []string{"y"}),
	}, "seed")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, DuplicateOutput, gerr.Kind)
}

func TestNewRejectsUnsatisfiedInput(t *testing.T) {
	_, err := New([]Stage{
		passthrough("lonely", []string{"missing"}, []string{"x"}),
	}, "seed")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, UnsatisfiedInput, gerr.Kind)
	assert.Contains(t, gerr.Detail, `"missing"`)
	assert.Contains(t, gerr.Detail, `"lonely"`)
}

func TestNewRejectsCycle(t *testing.T) {
	_, err := New([]Stage{
		passthrough("a", []string{"kb"}, []string{"ka"}),
		passthrough("b", []string{"ka"}, []string{"kb"}),
	})

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, Cycle, gerr.Kind)
	assert.Contains(t, gerr.Detail, "a")
	assert.Contains(t, gerr.Detail, "b")
}

func TestProducerAndSeeds(t *testing.T) {
	g, err := New([]Stage{
		passthrough("maker", []string{"seed"}, []string{"made"}),
	}, "seed")
	require.NoError(t, err)

	require.NotNil(t, g.Producer("made"))
	assert.Equal(t, "maker", g.Producer("made").Name())
	assert.Nil(t, g.Producer("seed"))
	assert.Nil(t, g.Producer("unknown"))
	assert.Equal(t, []string{"seed"}, g.Seeds())
	assert.Equal(t, 1, g.Len())
}

func TestPlanReturnsCopy(t *testing.T) {
	g, err := New([]Stage{
		passthrough("only", []string{"seed"}, []string{"x"}),
	}, "seed")
	require.NoError(t, err)

	p1 := g.Plan()
	p1[0] = nil
	p2 := g.Plan()
	require.NotNil(t, p2[0])
	assert.Equal(t, "only", p2[0].Name())
}

func TestValuesClone(t *testing.T) {
	v := Values{"a": 1, "b": "two"}
	c := v.Clone()
	c["a"] = 99

	assert.Equal(t, 1, v["a"])
	assert.Equal(t, "two", c["b"])
}
