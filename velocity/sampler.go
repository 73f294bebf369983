package velocity

import (
	"fmt"
	"strings"
)

// Sampler is the velocity consumed by the trajectory integrator
type Sampler interface {
	Velocity(x, y, t float64) (u, v float64)
}

// Model is a closed form velocity field, e.g. the double gyre
type Model interface {
	GetVelocity(t, x, y float64) (u, v float64)
}

// Continuous samples an analytic model directly
type Continuous struct {
	Model Model
}

func NewContinuous(m Model) *Continuous {
	return &Continuous{Model: m}
}

func (c *Continuous) Velocity(x, y, t float64) (u, v float64) {
	return c.Model.GetVelocity(t, x, y)
}

// TemporalPolicy selects how a discrete field is sampled between stored snapshots
type TemporalPolicy uint8

const (
	Linear TemporalPolicy = iota
	Nearest
)

var TemporalPolicyNameMap = map[string]TemporalPolicy{
	"linear":  Linear,
	"nearest": Nearest,
}

func NewTemporalPolicy(label string) (tp TemporalPolicy, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return Linear, nil
	}
	if tp, ok = TemporalPolicyNameMap[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("temporal interpolation must be 'linear' or 'nearest', have %q", label)
	}
	return
}

func (tp TemporalPolicy) String() string {
	switch tp {
	case Linear:
		return "linear"
	case Nearest:
		return "nearest"
	}
	return fmt.Sprintf("TemporalPolicy(%d)", uint8(tp))
}
