package compiler

import (
	"bytes"
	"context"
	"strings"
	"testing"

	lrxerrors "github.com/standardbeagle/lrxc/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyRules(t *testing.T) {
	bundle, err := Compile(context.Background(), strings.NewReader(`<rules></rules>`), CompileOptions{})
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.Equal(t, 1, bundle.Main.Size())
	assert.Empty(t, bundle.Registry.Weights())

	var buf bytes.Buffer
	require.NoError(t, bundle.WriteTo(&buf))
	assert.True(t, buf.Len() > 0)
}

func TestCompileSingleRuleProducesOneWeightAndRecogniser(t *testing.T) {
	doc := `<rules><rule><match lemma="cat" tags="n"><select lemma="cat" tags="n.sg"/></match></rule></rules>`
	bundle, err := Compile(context.Background(), strings.NewReader(doc), CompileOptions{Debug: true})
	require.NoError(t, err)

	assert.Len(t, bundle.Registry.Weights(), 1)
	assert.Equal(t, 1, bundle.Registry.RecogniserCount())
}

func TestCompilePropagatesTranslationErrors(t *testing.T) {
	doc := `<rules><rule><repeat from="2" upto="1"><match surface="x"/></repeat></rule></rules>`
	_, err := Compile(context.Background(), strings.NewReader(doc), CompileOptions{})
	require.Error(t, err)

	ce, ok := err.(*lrxerrors.CompileError)
	require.True(t, ok)
	assert.Equal(t, lrxerrors.KindBadRepeatBounds, ce.Kind)
}

func TestCompileRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compile(ctx, strings.NewReader(`<rules></rules>`), CompileOptions{})
	require.Error(t, err)
}
