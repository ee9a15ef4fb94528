//go:build !debug
// +build !debug

package layered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceEmptyInRelease(t *testing.T) {
	n, err := New(testConf())
	require.NoError(t, err)
	_, err = n.Generate(examples()[0], DefaultGenerationConf())
	require.NoError(t, err)
	assert.Empty(t, n.Trace())
	assert.Nil(t, n.lj.trace())
}
