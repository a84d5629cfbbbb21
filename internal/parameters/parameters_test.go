package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("mcts, simulations=200,c=0.5,,seed=7,expr=a=b")
	assert.Equal(t, Params{
		"mcts":        "",
		"simulations": "200",
		"c":           "0.5",
		"seed":        "7",
		"expr":        "a=b",
	}, params)
	assert.Equal(t, []string{"c", "expr", "mcts", "seed", "simulations"}, params.Keys())
	assert.Empty(t, NewFromConfigString(""))

	// String goes back to a config string, with sorted keys.
	assert.Equal(t, "c=0.5,expr=a=b,mcts,seed=7,simulations=200", params.String())
	assert.Equal(t, params, NewFromConfigString(params.String()))
	assert.Equal(t, "", Params{}.String())
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("ab,max_depth=3,seed=18446744073709551615,c=1.5,name=x,verbose")

	isAB, err := PopParamOr(params, "ab", false)
	require.NoError(t, err)
	assert.True(t, isAB)

	maxDepth, err := PopParamOr(params, "max_depth", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, maxDepth)

	seed, err := PopParamOr(params, "seed", uint64(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), seed)

	c, err := PopParamOr(params, "c", 0.0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, c)

	name, err := PopParamOr(params, "name", "")
	require.NoError(t, err)
	assert.Equal(t, "x", name)

	// Missing keys return the default and are not an error.
	simulations, err := PopParamOr(params, "simulations", 5000)
	require.NoError(t, err)
	assert.Equal(t, 5000, simulations)

	assert.Equal(t, []string{"verbose"}, params.Keys())
}

func TestGetParamOrErrors(t *testing.T) {
	params := NewFromConfigString("max_depth=two,seed=-1,flag=maybe,c=x")
	_, err := GetParamOr(params, "max_depth", 0)
	assert.Error(t, err)
	_, err = GetParamOr(params, "seed", uint64(0))
	assert.Error(t, err)
	_, err = GetParamOr(params, "flag", false)
	assert.Error(t, err)
	_, err = GetParamOr(params, "c", float32(0))
	assert.Error(t, err)

	// Get doesn't remove the keys.
	assert.Len(t, params, 4)
}
