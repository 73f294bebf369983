package types

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDirection = errors.New("direction must be set either to 'forward' or 'backward'")

// Direction selects the sense of time integration for a run. It is fixed for the
// life of a run; everything downstream only consumes Sign() and Tag().
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

var DirectionNameMap = map[string]Direction{
	"forward":  Forward,
	"backward": Backward,
}

func NewDirection(label string) (d Direction, err error) {
	var (
		ok bool
	)
	if d, ok = DirectionNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("%w, have %q", ErrUnknownDirection, label)
	}
	return
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Sign is +1 for Forward and -1 for Backward
func (d Direction) Sign() float64 {
	if d == Backward {
		return -1
	}
	return 1
}

// Tag is the file name component that separates forward and backward cache entries
func (d Direction) Tag() string {
	if d == Backward {
		return "negative_"
	}
	return "positive_"
}

// TimeSpan returns the (initial, final) integration times for the range [tMin, tMax]
func (d Direction) TimeSpan(tMin, tMax float64) (tInitial, tFinal float64) {
	if d == Backward {
		return tMax, tMin
	}
	return tMin, tMax
}

// Ordered returns the pair (a, b) with the numerically smaller time first
func (d Direction) Ordered(tInitial, tFinal float64) (earlier, later float64) {
	if d == Backward {
		return tFinal, tInitial
	}
	return tInitial, tFinal
}
