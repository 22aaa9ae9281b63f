package engine

import "fmt"

// Position represents x,y coordinates on a plateau. The origin is the
// south-west corner and y grows northwards.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Step returns the position one cell away from p in direction d
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("%d %d", p.X, p.Y)
}

// Plateau is the closed rectangle [0,MaxX] x [0,MaxY]. It does not check its
// own bounds; callers validate them first.
type Plateau struct {
	MaxX int `json:"max_x" yaml:"max_x"`
	MaxY int `json:"max_y" yaml:"max_y"`
}

// IsWithinBounds reports whether p lies on the plateau, edges included
func (pl Plateau) IsWithinBounds(p Position) bool {
	return p.X >= 0 && p.X <= pl.MaxX && p.Y >= 0 && p.Y <= pl.MaxY
}

// Width is the number of columns on the plateau
func (pl Plateau) Width() int {
	return pl.MaxX + 1
}

// Height is the number of rows on the plateau
func (pl Plateau) Height() int {
	return pl.MaxY + 1
}

// Cells returns the number of cells on the plateau
func (pl Plateau) Cells() int64 {
	return int64(pl.Width()) * int64(pl.Height())
}

func (pl Plateau) String() string {
	return fmt.Sprintf("%dx%d", pl.MaxX, pl.MaxY)
}
