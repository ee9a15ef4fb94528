package main

import (
	"bytes"
	"testing"

	"github.com/gorgonia/improv/melody"
	"github.com/stretchr/testify/assert"
)

func TestPrintHinton(t *testing.T) {
	var buf bytes.Buffer
	printHinton(&buf, [][]float32{{0, 0.2, 0.5, 0.7, 1}, {0.99, 0.01, 0.39, 0.41, 0.65}})
	assert.Equal(t, " .:*#\n# .:*\n", buf.String())
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C4", noteName(60))
	assert.Equal(t, "B3", noteName(59))
	assert.Equal(t, "r", noteName(melody.Rest))
}
