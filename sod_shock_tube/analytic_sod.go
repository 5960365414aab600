package sod_shock_tube

import (
	"fmt"
	"math"
)

// State is the one dimensional primitive state
type State struct {
	Rho, U, P float64
}

/*
RiemannProblem is the exact solution of the 1D Euler equations for an ideal
gas with Left for x < X0 and Right for x > X0 at t = 0. The star region
between the two nonlinear waves is solved on construction; Sample evaluates
the self similar solution anywhere after that.
*/
type RiemannProblem struct {
	Left, Right           State
	Gamma, X0             float64
	PStar, UStar          float64
	RhoStarL, RhoStarR    float64
	cL, cR                float64
	g1, g2, g3, g4, g5    float64 // Gamma combinations
	g6, g7, g8            float64
	leftShock, rightShock bool
}

func NewRiemannProblem(left, right State, gamma, x0 float64) (rp *RiemannProblem, err error) {
	if !(gamma > 1) {
		err = fmt.Errorf("riemann problem needs gamma > 1, have %v", gamma)
		return
	}
	for _, s := range []State{left, right} {
		if !(s.Rho > 0) || !(s.P > 0) {
			err = fmt.Errorf("riemann problem needs positive density and pressure, have %+v", s)
			return
		}
	}
	rp = &RiemannProblem{
		Left:  left,
		Right: right,
		Gamma: gamma,
		X0:    x0,
		cL:    math.Sqrt(gamma * left.P / left.Rho),
		cR:    math.Sqrt(gamma * right.P / right.Rho),
		g1:    (gamma - 1) / (2 * gamma),
		g2:    (gamma + 1) / (2 * gamma),
		g3:    2 * gamma / (gamma - 1),
		g4:    2 / (gamma - 1),
		g5:    2 / (gamma + 1),
		g6:    (gamma - 1) / (gamma + 1),
		g7:    (gamma - 1) / 2,
		g8:    gamma - 1,
	}
	if rp.g4*(rp.cL+rp.cR) <= right.U-left.U {
		err = fmt.Errorf("initial data generate vacuum")
		return
	}
	rp.solveStar()
	return
}

// pressureFunction is the velocity change across one wave as a function of
// the star pressure, and its derivative
func (rp *RiemannProblem) pressureFunction(p float64, s State, c float64) (f, fd float64) {
	if p <= s.P { // Rarefaction
		prat := p / s.P
		f = rp.g4 * c * (math.Pow(prat, rp.g1) - 1)
		fd = math.Pow(prat, -rp.g2) / (s.Rho * c)
		return
	}
	// Shock
	ak, bk := rp.g5/s.Rho, rp.g6*s.P
	qrt := math.Sqrt(ak / (bk + p))
	f = (p - s.P) * qrt
	fd = (1 - 0.5*(p-s.P)/(bk+p)) * qrt
	return
}

func (rp *RiemannProblem) solveStar() {
	var (
		l, r    = rp.Left, rp.Right
		du      = r.U - l.U
		tol     = 1.e-12
		maxIter = 100
	)
	// Two rarefaction guess, exact when both waves are rarefactions
	p := math.Pow((rp.cL+rp.cR-0.5*rp.g8*du)/(rp.cL/math.Pow(l.P, rp.g1)+rp.cR/math.Pow(r.P, rp.g1)), rp.g3)
	for i := 0; i < maxIter; i++ {
		fL, fdL := rp.pressureFunction(p, l, rp.cL)
		fR, fdR := rp.pressureFunction(p, r, rp.cR)
		pNew := p - (fL+fR+du)/(fdL+fdR)
		if pNew < tol {
			pNew = tol
		}
		change := 2 * math.Abs(pNew-p) / (pNew + p)
		p = pNew
		if change < tol {
			break
		}
	}
	fL, _ := rp.pressureFunction(p, l, rp.cL)
	fR, _ := rp.pressureFunction(p, r, rp.cR)
	rp.PStar = p
	rp.UStar = 0.5*(l.U+r.U) + 0.5*(fR-fL)
	rp.leftShock, rp.rightShock = p > l.P, p > r.P
	rp.RhoStarL = rp.starDensity(l, rp.leftShock)
	rp.RhoStarR = rp.starDensity(r, rp.rightShock)
}

func (rp *RiemannProblem) starDensity(s State, shock bool) float64 {
	prat := rp.PStar / s.P
	if shock {
		return s.Rho * (prat + rp.g6) / (prat*rp.g6 + 1)
	}
	return s.Rho * math.Pow(prat, 1/rp.Gamma)
}

// Sample returns the solution at position x and time t
func (rp *RiemannProblem) Sample(x, t float64) (s State) {
	if t <= 0 {
		if x < rp.X0 {
			return rp.Left
		}
		return rp.Right
	}
	var (
		l, r = rp.Left, rp.Right
		xi   = (x - rp.X0) / t
	)
	if xi <= rp.UStar { // Left of the contact
		if rp.leftShock {
			sl := l.U - rp.cL*math.Sqrt(rp.g2*rp.PStar/l.P+rp.g1)
			if xi <= sl {
				return l
			}
			return State{Rho: rp.RhoStarL, U: rp.UStar, P: rp.PStar}
		}
		shl := l.U - rp.cL
		if xi <= shl {
			return l
		}
		cml := rp.cL * math.Pow(rp.PStar/l.P, rp.g1)
		stl := rp.UStar - cml
		if xi > stl {
			return State{Rho: rp.RhoStarL, U: rp.UStar, P: rp.PStar}
		}
		// Inside the left fan
		c := rp.g5 * (rp.cL + rp.g7*(l.U-xi))
		s.Rho = l.Rho * math.Pow(c/rp.cL, rp.g4)
		s.U = rp.g5 * (rp.cL + rp.g7*l.U + xi)
		s.P = l.P * math.Pow(c/rp.cL, rp.g3)
		return
	}
	// Right of the contact
	if rp.rightShock {
		sr := r.U + rp.cR*math.Sqrt(rp.g2*rp.PStar/r.P+rp.g1)
		if xi >= sr {
			return r
		}
		return State{Rho: rp.RhoStarR, U: rp.UStar, P: rp.PStar}
	}
	shr := r.U + rp.cR
	if xi >= shr {
		return r
	}
	cmr := rp.cR * math.Pow(rp.PStar/r.P, rp.g1)
	str := rp.UStar + cmr
	if xi < str {
		return State{Rho: rp.RhoStarR, U: rp.UStar, P: rp.PStar}
	}
	// Inside the right fan
	c := rp.g5 * (rp.cR - rp.g7*(r.U-xi))
	s.Rho = r.Rho * math.Pow(c/rp.cR, rp.g4)
	s.U = rp.g5 * (-rp.cR + rp.g7*r.U + xi)
	s.P = r.P * math.Pow(c/rp.cR, rp.g3)
	return
}

// Positions returns, for a left rarefaction and right shock, the fan head
// x1, fan tail x2, contact x3 and shock x4 at time t
func (rp *RiemannProblem) Positions(t float64) (x1, x2, x3, x4 float64) {
	var (
		l, r = rp.Left, rp.Right
		cml  = rp.cL * math.Pow(rp.PStar/l.P, rp.g1)
		sr   = r.U + rp.cR*math.Sqrt(rp.g2*rp.PStar/r.P+rp.g1)
	)
	x1 = rp.X0 + (l.U-rp.cL)*t
	x2 = rp.X0 + (rp.UStar-cml)*t
	x3 = rp.X0 + rp.UStar*t
	x4 = rp.X0 + sr*t
	return
}

// NewSOD is the classic Sod problem on [0,1] with the diaphragm at 0.5
func NewSOD() *RiemannProblem {
	rp, _ := NewRiemannProblem(State{Rho: 1, P: 1}, State{Rho: 0.125, P: 0.1}, 1.4, 0.5)
	return rp
}

// SOD_calc samples the Sod solution at time t at the domain ends, on both
// sides of every wave, and across the rarefaction fan. E is specific
// internal energy.
func SOD_calc(t float64) (X, Rho, P, U, E []float64) {
	var (
		sod            = NewSOD()
		x_min, x_max   = 0., 1.
		x1, x2, x3, x4 = sod.Positions(t)
		tol            = 0.0001
		nfan           = 10
	)
	X = []float64{x_min, x1 - tol, x1 + tol}
	for i := 1; i < nfan; i++ {
		X = append(X, x1+float64(i)*(x2-x1)/float64(nfan))
	}
	X = append(X, x2-tol, x2+tol, x3-tol, x3+tol, x4-tol, x4+tol, x_max)
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		s := sod.Sample(x, t)
		Rho[i], P[i], U[i] = s.Rho, s.P, s.U
		E[i] = s.P / ((sod.Gamma - 1.) * s.Rho)
	}
	return
}
