package energy

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	layers := [][]float64{
		{-1, -3, -4.5, -5},
		nil,
		{-0.5, -0.75},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "energy", layers))

	conf, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.True(t, conf.Width > 0)
	assert.Equal(t, conf.Width, conf.Height)
}

func TestPlotEmpty(t *testing.T) {
	_, err := Plot("energy", nil)
	assert.Error(t, err)
	_, err = Plot("energy", [][]float64{nil, {}})
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "energy.png")
	require.NoError(t, Save(filename, "energy", [][]float64{{3, 2, 1}}))
	assert.FileExists(t, filename)
}
