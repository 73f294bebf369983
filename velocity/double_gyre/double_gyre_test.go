package double_gyre

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoubleGyre(t *testing.T) {
	dg := NewDefaultDoubleGyre()
	{ // Steady gyres at t = 0: f = x
		u, v := dg.GetVelocity(0, 0.5, 0.5)
		assert.InDelta(t, 0, u, 1e-15) // cos(pi/2) = 0
		assert.InDelta(t, 0, v, 1e-15) // cos(pi/2) = 0
		u, v = dg.GetVelocity(0, 0.5, 0)
		assert.InDelta(t, -math.Pi*0.1, u, 1e-15)
		assert.InDelta(t, 0, v, 1e-15)
	}
	{ // No flow through the walls at any time
		for _, tm := range []float64{0, 1.3, 2.5, 7.1} {
			for _, s := range []float64{0, 0.3, 0.77, 1} {
				u, _ := dg.GetVelocity(tm, 0, s)
				assert.InDelta(t, 0, u, 1e-14)
				u, _ = dg.GetVelocity(tm, 2, s)
				assert.InDelta(t, 0, u, 1e-14)
				_, v := dg.GetVelocity(tm, 2*s, 0)
				assert.InDelta(t, 0, v, 1e-14)
				_, v = dg.GetVelocity(tm, 2*s, 1)
				assert.InDelta(t, 0, v, 1e-14)
			}
		}
	}
	{ // Divergence free, checked by central differences
		var (
			h      = 1e-5
			tm     = 2.3
			x0, y0 = 1.37, 0.41
		)
		up, _ := dg.GetVelocity(tm, x0+h, y0)
		um, _ := dg.GetVelocity(tm, x0-h, y0)
		_, vp := dg.GetVelocity(tm, x0, y0+h)
		_, vm := dg.GetVelocity(tm, x0, y0-h)
		assert.InDelta(t, 0, (up-um)/(2*h)+(vp-vm)/(2*h), 1e-8)
	}
}
