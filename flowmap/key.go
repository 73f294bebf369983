package flowmap

import (
	"github.com/notargets/golcs/types"
	"github.com/notargets/golcs/utils"
)

/*
Key addresses one cached single step flow map. The time of the step is held
as an integer tick at the run's decimal precision, so two keys built from
floating point times that differ only by accumulation error compare equal.
*/
type Key struct {
	Prefix    string
	Direction types.Direction
	Tick      int64
	Precision int
}

func NewKey(prefix string, dir types.Direction, t float64, precision int) Key {
	return Key{
		Prefix:    prefix,
		Direction: dir,
		Tick:      utils.QuantizeTime(t, precision),
		Precision: precision,
	}
}

func (k Key) Time() float64 {
	return utils.TickToTime(k.Tick, k.Precision)
}

// String is {prefix}{positive_|negative_}{time}, the base name of the cache entry
func (k Key) String() string {
	return k.Prefix + k.Direction.Tag() + utils.FormatTick(k.Tick, k.Precision)
}
