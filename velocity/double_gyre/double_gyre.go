package double_gyre

import (
	"math"
)

/*
DoubleGyre is the periodically forced pair of counter rotating gyres on
[0,2]x[0,1] (Shadden, Lekien & Marsden 2005):

	f(x,t) = a(t) x^2 + b(t) x,  a = eps sin(wt),  b = 1 - 2 eps sin(wt)
	u = -pi A sin(pi f) cos(pi y)
	v =  pi A cos(pi f) sin(pi y) df/dx
*/
type DoubleGyre struct {
	A, Epsilon, Omega float64
}

const (
	DefaultA       = 0.1
	DefaultEpsilon = 0.25
)

var DefaultOmega = 2 * math.Pi / 10

func NewDoubleGyre(A, Epsilon, Omega float64) (dg *DoubleGyre) {
	dg = &DoubleGyre{
		A:       A,
		Epsilon: Epsilon,
		Omega:   Omega,
	}
	return
}

func NewDefaultDoubleGyre() *DoubleGyre {
	return NewDoubleGyre(DefaultA, DefaultEpsilon, DefaultOmega)
}

func (dg *DoubleGyre) GetVelocity(t, x, y float64) (u, v float64) {
	var (
		sinwt = math.Sin(dg.Omega * t)
		a     = dg.Epsilon * sinwt
		b     = 1 - 2*dg.Epsilon*sinwt
		f     = a*x*x + b*x
		dfdx  = 2*a*x + b
		piA   = math.Pi * dg.A
	)
	u = -piA * math.Sin(math.Pi*f) * math.Cos(math.Pi*y)
	v = piA * math.Cos(math.Pi*f) * math.Sin(math.Pi*y) * dfdx
	return
}
