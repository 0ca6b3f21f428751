package registry

import (
	"testing"

	"github.com/standardbeagle/lrxc/internal/fst"
	"github.com/stretchr/testify/assert"
)

func TestDefineSequenceAndLookup(t *testing.T) {
	r := New()
	tr := fst.New()
	r.DefineSequence("NP", tr)

	got, ok := r.Sequence("NP")
	assert.True(t, ok)
	assert.Same(t, tr, got)

	_, ok = r.Sequence("missing")
	assert.False(t, ok)
}

func TestPutRecogniserLastWriteWins(t *testing.T) {
	r := New()
	first := fst.New()
	second := fst.New()

	r.PutRecogniser("<select>cat<n>", first)
	r.PutRecogniser("<select>cat<n>", second)

	got, ok := r.Recogniser("<select>cat<n>")
	assert.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.RecogniserCount(), "colliding keys must not duplicate the key list")
}

func TestRecogniserKeysPreserveInsertionOrder(t *testing.T) {
	r := New()
	r.PutRecogniser("b", fst.New())
	r.PutRecogniser("a", fst.New())
	r.PutRecogniser("c", fst.New())

	assert.Equal(t, []string{"b", "a", "c"}, r.RecogniserKeys())
}

// TestP2WeightsAscendingInsertionOrder backs spec property P2: the
// weights list contains exactly one entry per rule ID, in ascending order.
func TestP2WeightsAscendingInsertionOrder(t *testing.T) {
	r := New()
	r.AddWeight(1, 1.0)
	r.AddWeight(2, 2.5)
	r.AddWeight(3, DefaultWeight)

	weights := r.Weights()
	assert.Len(t, weights, 3)
	for i, w := range weights {
		assert.Equal(t, i+1, w.RuleID)
	}
	assert.Equal(t, 2.5, weights[1].Weight)
}

func TestNormalizeWeightDefaultsWhenAbsentOrUnparseable(t *testing.T) {
	assert.Equal(t, DefaultWeight, NormalizeWeight(0, false))
	assert.Equal(t, 3.5, NormalizeWeight(3.5, true))
}
