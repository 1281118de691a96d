package domain

import "sort"

// Interpolate evaluates a graphical-function point table at x using method
// (§4.4). Points need not be pre-sorted; Interpolate sorts a copy ascending
// by X before evaluating.
func Interpolate(points []Point, method InterpolationMethod, x float64) (float64, error) {
	if len(points) == 0 {
		return 0, NewValueError("graphical function has no points")
	}
	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	switch method {
	case InterpolationNearest:
		return interpolateNearest(pts, x), nil
	case InterpolationLinear:
		return interpolateLinear(pts, x), nil
	case InterpolationCubic:
		return interpolateCubic(pts, x), nil
	case InterpolationStep, "":
		return interpolateStep(pts, x), nil
	default:
		return 0, NewValueError("unknown interpolation method %q", method)
	}
}

// interpolateNearest returns the y of the point nearest x, breaking ties by
// taking the first (smallest-x) of the equally-near points (§4.4, §9).
func interpolateNearest(pts []Point, x float64) float64 {
	best := 0
	bestDist := absF(pts[0].X - x)
	for i := 1; i < len(pts); i++ {
		d := absF(pts[i].X - x)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return pts[best].Y
}

// interpolateStep is left-continuous: for x < x0 return y0, for x >= x[n-1]
// return y[n-1], else return y_i where x_i <= x < x_{i+1} (§4.4).
func interpolateStep(pts []Point, x float64) float64 {
	if x < pts[0].X {
		return pts[0].Y
	}
	last := len(pts) - 1
	if x >= pts[last].X {
		return pts[last].Y
	}
	for i := 0; i < last; i++ {
		if pts[i].X <= x && x < pts[i+1].X {
			return pts[i].Y
		}
	}
	return pts[last].Y
}

// interpolateLinear clamps to the endpoints and linearly interpolates within
// the bracketing segment (§4.4).
func interpolateLinear(pts []Point, x float64) float64 {
	last := len(pts) - 1
	if x <= pts[0].X {
		return pts[0].Y
	}
	if x >= pts[last].X {
		return pts[last].Y
	}
	for i := 0; i < last; i++ {
		x0, x1 := pts[i].X, pts[i+1].X
		if x >= x0 && x <= x1 {
			if x1 == x0 {
				return pts[i].Y
			}
			t := (x - x0) / (x1 - x0)
			return pts[i].Y + t*(pts[i+1].Y-pts[i].Y)
		}
	}
	return pts[last].Y
}

// interpolateCubic is Catmull-Rom with reflected phantom control points at
// the boundaries (§4.4); for n=2 it falls back to linear.
func interpolateCubic(pts []Point, x float64) float64 {
	n := len(pts)
	if n == 2 {
		return interpolateLinear(pts, x)
	}
	last := n - 1
	if x <= pts[0].X {
		return pts[0].Y
	}
	if x >= pts[last].X {
		return pts[last].Y
	}

	seg := 0
	for i := 0; i < last; i++ {
		if x >= pts[i].X && x <= pts[i+1].X {
			seg = i
			break
		}
	}

	p1, p2 := pts[seg], pts[seg+1]
	var p0, p3 Point
	if seg == 0 {
		// Reflect p2 across p1 to synthesise the phantom point before p0.
		p0 = Point{X: p1.X - (p2.X - p1.X), Y: p1.Y - (p2.Y - p1.Y)}
	} else {
		p0 = pts[seg-1]
	}
	if seg+2 > last {
		p3 = Point{X: p2.X + (p2.X - p1.X), Y: p2.Y + (p2.Y - p1.Y)}
	} else {
		p3 = pts[seg+2]
	}

	if p2.X == p1.X {
		return p1.Y
	}
	t := (x - p1.X) / (p2.X - p1.X)
	return catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, t)
}

func catmullRom(y0, y1, y2, y3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * y1) +
		(-y0+y2)*t +
		(2*y0-5*y1+4*y2-y3)*t2 +
		(-y0+3*y1-3*y2+y3)*t3)
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
