package domain

// Point is an (x, y) pair used by graphical-function tables (§4.4) and
// carried as an atom kind of its own (AtomPoint) in the value model.
type Point struct {
	X float64
	Y float64
}
