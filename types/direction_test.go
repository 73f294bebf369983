package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection(t *testing.T) {
	{ // Parse labels
		d, err := NewDirection("forward")
		require.NoError(t, err)
		assert.Equal(t, Forward, d)
		d, err = NewDirection(" Backward ")
		require.NoError(t, err)
		assert.Equal(t, Backward, d)
		_, err = NewDirection("sideways")
		assert.True(t, errors.Is(err, ErrUnknownDirection))
		_, err = NewDirection("")
		assert.Error(t, err)
	}
	{ // Sign and tag are the only things a direction changes
		assert.Equal(t, 1., Forward.Sign())
		assert.Equal(t, -1., Backward.Sign())
		assert.Equal(t, "positive_", Forward.Tag())
		assert.Equal(t, "negative_", Backward.Tag())
		assert.Equal(t, "forward", Forward.String())
		assert.Equal(t, "backward", Backward.String())
	}
	{ // Time spans
		ti, tf := Forward.TimeSpan(0, 1)
		assert.Equal(t, [2]float64{0, 1}, [2]float64{ti, tf})
		ti, tf = Backward.TimeSpan(0, 1)
		assert.Equal(t, [2]float64{1, 0}, [2]float64{ti, tf})
		// Result files always carry the smaller time first
		e, l := Forward.Ordered(0.25, 1)
		assert.Equal(t, [2]float64{0.25, 1}, [2]float64{e, l})
		e, l = Backward.Ordered(0.75, 0)
		assert.Equal(t, [2]float64{0, 0.75}, [2]float64{e, l})
	}
}
