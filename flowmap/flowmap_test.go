package flowmap

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golcs/grid"
	"github.com/notargets/golcs/types"
)

func newTestPosition(t *testing.T) (p *grid.Position) {
	lat, err := grid.NewLattice(grid.Bounds{XMin: 0, XMax: 2, YMin: 0, YMax: 1}, 5, 4)
	require.NoError(t, err)
	p = grid.NewPosition(lat)
	xD, yD := p.XData(), p.YData()
	for k := range xD {
		xD[k] += 0.01 * float64(k)
		yD[k] -= 0.003 * float64(k)
	}
	return
}

func TestKey(t *testing.T) {
	{ // Accumulated times quantize to the same key
		k1 := NewKey("dg_", types.Forward, 0.1+0.2, 3)
		k2 := NewKey("dg_", types.Forward, 0.3, 3)
		assert.Equal(t, k1, k2)
		assert.Equal(t, "dg_positive_0.300", k1.String())
		assert.InDelta(t, 0.3, k1.Time(), 1e-15)
	}
	{ // Direction separates entries
		kf := NewKey("dg_", types.Forward, 0.025, 3)
		kb := NewKey("dg_", types.Backward, 0.025, 3)
		assert.NotEqual(t, kf, kb)
		assert.Equal(t, "dg_negative_0.025", kb.String())
	}
	{ // Distinct steps never alias at the derived precision
		seen := make(map[string]bool)
		for n := 0; n <= 40; n++ {
			s := NewKey("", types.Forward, float64(n)*0.025, 3).String()
			assert.False(t, seen[s])
			seen[s] = true
		}
	}
}

func TestCodec(t *testing.T) {
	p := newTestPosition(t)
	buf := Encode(p)
	require.Len(t, buf, 16*20)
	assert.Equal(t, math.Float64bits(p.XData()[3]), leUint64(buf[48:]))

	q := grid.NewPosition(p.Lattice)
	require.NoError(t, Decode(buf, q))
	assert.Equal(t, p.XData(), q.XData())
	assert.Equal(t, p.YData(), q.YData())
	// Points pushed below y_min are flagged on decode
	assert.Zero(t, p.CountOutOfBounds())
	assert.True(t, q.CountOutOfBounds() > 0)

	err := Decode(buf[:len(buf)-8], q)
	assert.True(t, errors.Is(err, ErrCorruptEntry))
}

func leUint64(b []byte) (v uint64) {
	for n := 7; n >= 0; n-- {
		v = v<<8 | uint64(b[n])
	}
	return
}

func testStore(t *testing.T, st Store) {
	var (
		p   = newTestPosition(t)
		key = NewKey("dg_", types.Forward, 0.5, 3)
		q   = grid.NewPosition(p.Lattice)
	)
	{ // Never written is a cache miss, not a default
		assert.False(t, st.Has(key))
		err := st.Read(key, q)
		assert.True(t, errors.Is(err, ErrCacheMiss))
		_, err = st.Size(key)
		assert.True(t, errors.Is(err, ErrCacheMiss))
	}
	{ // Writing twice is idempotent
		require.NoError(t, st.Write(key, p))
		require.NoError(t, st.Read(key, q))
		first := append([]float64{}, q.XData()...)
		require.NoError(t, st.Write(key, p))
		require.NoError(t, st.Read(key, q))
		assert.Equal(t, first, q.XData())
		assert.Equal(t, p.YData(), q.YData())
		assert.InDelta(t, 0.5, q.Time, 1e-15)
		assert.True(t, st.Has(key))
	}
	{ // Rewriting replaces what a reader sees
		p2 := grid.NewPosition(p.Lattice)
		require.NoError(t, st.Write(key, p2))
		require.NoError(t, st.Read(key, q))
		assert.Equal(t, p2.XData(), q.XData())
	}
	{ // Verify checks presence and size
		other := NewKey("dg_", types.Forward, 1, 3)
		require.NoError(t, st.Write(other, p))
		assert.NoError(t, Verify(st, []Key{key, other}, p.Lattice))
		err := Verify(st, []Key{key, NewKey("dg_", types.Backward, 1, 3)}, p.Lattice)
		assert.True(t, errors.Is(err, ErrCacheMiss))
		big, err := grid.NewLattice(p.Lattice.Bounds, 6, 4)
		require.NoError(t, err)
		err = Verify(st, []Key{key}, big)
		assert.True(t, errors.Is(err, ErrCorruptEntry))
	}
	{ // Delete
		require.NoError(t, st.Delete(key))
		assert.False(t, st.Has(key))
		assert.NoError(t, st.Delete(key))
	}
	assert.NoError(t, st.Close())
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "step_flow_maps")
	st, err := NewFileStore(dir)
	require.NoError(t, err)
	testStore(t, st)

	{ // File name and fixed width layout
		p := newTestPosition(t)
		key := NewKey("dg_", types.Backward, 0.025, 3)
		require.NoError(t, st.Write(key, p))
		assert.Equal(t, filepath.Join(dir, "dg_negative_0.025.bin"), st.Path(key))
		fi, err := os.Stat(st.Path(key))
		require.NoError(t, err)
		assert.Equal(t, int64(16*p.Lattice.Len()), fi.Size())
	}
	{ // A truncated entry is reported as corrupt
		p := newTestPosition(t)
		key := NewKey("dg_", types.Forward, 0.75, 3)
		require.NoError(t, os.WriteFile(st.Path(key), make([]byte, 24), 0644))
		err := st.Read(key, p)
		assert.True(t, errors.Is(err, ErrCorruptEntry))
	}
	{ // No temporary files are left behind
		matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	}
	assert.NoError(t, st.Close())
}
