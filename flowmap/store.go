package flowmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/notargets/golcs/grid"
)

var (
	ErrCacheMiss    = errors.New("flow map was never written to the cache")
	ErrCorruptEntry = errors.New("flow map cache entry has the wrong size")
)

// Store persists single step flow maps. Entries are write once per run and
// read many times, in any order, during composition.
type Store interface {
	Write(key Key, p *grid.Position) error
	// Read fills p from the entry, p must be on the lattice the entry was written from
	Read(key Key, p *grid.Position) error
	Has(key Key) bool
	// Size is the length in bytes of the stored blob
	Size(key Key) (int, error)
	Delete(key Key) error
	Close() error
}

// BlobSize is the encoded length of a position over lat: an (x,y) float64 pair per node
func BlobSize(lat *grid.Lattice) int {
	return 16 * lat.Len()
}

// Encode writes the positions as little endian float64 (x,y) pairs in flat
// index order, j outer and i inner.
func Encode(p *grid.Position) (buf []byte) {
	var (
		xD, yD = p.XData(), p.YData()
	)
	buf = make([]byte, BlobSize(p.Lattice))
	for k := range xD {
		binary.LittleEndian.PutUint64(buf[16*k:], math.Float64bits(xD[k]))
		binary.LittleEndian.PutUint64(buf[16*k+8:], math.Float64bits(yD[k]))
	}
	return
}

// Decode fills p from an encoded blob and rebuilds its out of bounds mask
func Decode(buf []byte, p *grid.Position) (err error) {
	var (
		xD, yD = p.XData(), p.YData()
	)
	if len(buf) != BlobSize(p.Lattice) {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrCorruptEntry, len(buf), BlobSize(p.Lattice))
	}
	for k := range xD {
		xD[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[16*k:]))
		yD[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[16*k+8:]))
		p.OutOfBounds[k] = false
	}
	p.UpdateOutOfBounds()
	return
}

/*
Verify checks that every key is present with the size of a lattice blob. It is
run before composition begins, so a missing or truncated step map fails the run
up front instead of part way through.
*/
func Verify(store Store, keys []Key, lat *grid.Lattice) (err error) {
	var (
		size int
	)
	for _, key := range keys {
		if size, err = store.Size(key); err != nil {
			return
		}
		if size != BlobSize(lat) {
			return fmt.Errorf("%w: %s has %d bytes, need %d", ErrCorruptEntry, key, size, BlobSize(lat))
		}
	}
	return
}
