package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNList(t *testing.T) {
	ns, err := parseNList("21, 41,81")
	require.NoError(t, err)
	assert.Equal(t, []int{21, 41, 81}, ns)
	_, err = parseNList("21,x")
	assert.Error(t, err)
	_, err = parseNList("2")
	assert.Error(t, err)
}

func TestComposeError(t *testing.T) {
	es := NewErrorStudy(4, 2)
	for _, n := range []int{21, 41} {
		maxErr, rmsErr, err := ComposeError(n, 4, 1, 2, 2)
		require.NoError(t, err)
		assert.True(t, rmsErr <= maxErr)
		assert.Less(t, maxErr, 5e-2)
		es.Add(n, maxErr, rmsErr)
	}
	// Bilinear composition converges as the lattice is refined
	assert.Less(t, es.maxErr[1], es.maxErr[0])
	_, rmsOrder := es.Order(1)
	assert.Greater(t, rmsOrder, 1.)
	es.Print()

	{ // A single step is exact, no interpolation takes place
		maxErr, _, err := ComposeError(21, 1, 1, 2, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0, maxErr, 1e-12)
	}

	fileName := filepath.Join(t.TempDir(), "study.csv")
	require.NoError(t, es.WriteCSV(fileName))
	raw, err := os.ReadFile(fileName)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "nx,steps,tMax,maxErr,rmsErr", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "41,4,2,"))
}
