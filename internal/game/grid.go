package game

import "math"

// WallKind tags a grid cell.
type WallKind uint8

const (
	WallNone WallKind = iota
	WallIndestructible
	WallDestructible
)

func (k WallKind) String() string {
	switch k {
	case WallNone:
		return "none"
	case WallIndestructible:
		return "indestructible"
	case WallDestructible:
		return "destructible"
	default:
		return "unknown"
	}
}

// Wall is one grid cell. The zero value is an empty cell.
type Wall struct {
	Kind      WallKind `json:"kind"`
	Pos       Position `json:"pos"`
	destroyed bool
}

// Present reports whether the wall still blocks its cell.
func (w Wall) Present() bool {
	return w.Kind != WallNone && !w.destroyed
}

// IsDestructible reports whether a blast can remove the wall.
func (w Wall) IsDestructible() bool { return w.Kind == WallDestructible }

// IsDestroyed reports whether the wall was removed by a blast. Indestructible
// walls are never destroyed.
func (w Wall) IsDestroyed() bool { return w.destroyed }

// Destroy marks a destructible wall destroyed. It returns true only on the
// call that performs the transition.
func (w *Wall) Destroy() bool {
	if w.Kind != WallDestructible || w.destroyed {
		return false
	}
	w.destroyed = true
	return true
}

// Bounds returns the 1x1 tile box of the wall.
func (w Wall) Bounds() Box { return w.Pos.Bounds() }

// Grid is the fixed-size wall layout. Cells are stored by value, row-major
// with y growing upwards.
type Grid struct {
	width, height int
	cells         []Wall
}

// NewGrid returns an empty grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Wall, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[g.index(x, y)].Pos = Position{X: x, Y: y}
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x,y) lies in [0,width)x[0,height).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x, y int) int { return y*g.width + x }

func (g *Grid) set(x, y int, kind WallKind) {
	g.cells[g.index(x, y)] = Wall{Kind: kind, Pos: Position{X: x, Y: y}}
}

// WallAt returns the un-destroyed wall at (x,y), if any.
func (g *Grid) WallAt(x, y int) (Wall, bool) {
	if !g.InBounds(x, y) {
		return Wall{}, false
	}
	w := g.cells[g.index(x, y)]
	return w, w.Present()
}

// IsPassable reports whether the cell is inside the map and free of walls.
func (g *Grid) IsPassable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return !g.cells[g.index(x, y)].Present()
}

// WallOccupying returns the un-destroyed wall whose tile box contains the
// sub-tile point (px,py).
func (g *Grid) WallOccupying(px, py float64) (Wall, bool) {
	return g.WallAt(int(math.Floor(px)), int(math.Floor(py)))
}

// IsPassableFor reports whether a box of the given footprint placed at (x,y)
// overlaps no wall. Cells outside the map count as walls.
func (g *Grid) IsPassableFor(size Size, x, y float64) bool {
	box := Box{X: x, Y: y, W: size.W, H: size.H}
	minX, minY := int(math.Floor(x))-1, int(math.Floor(y))-1
	maxX, maxY := int(math.Floor(x+size.W))+1, int(math.Floor(y+size.H))+1
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if g.IsPassable(cx, cy) {
				continue
			}
			if Collides(box, Position{X: cx, Y: cy}) {
				return false
			}
		}
	}
	return true
}

// destroy removes a destructible wall from the grid and returns it with its
// destroyed flag set. The cell becomes empty.
func (g *Grid) destroy(x, y int) (Wall, bool) {
	if !g.InBounds(x, y) {
		return Wall{}, false
	}
	i := g.index(x, y)
	w := g.cells[i]
	if !w.Destroy() {
		return Wall{}, false
	}
	g.cells[i] = Wall{Pos: w.Pos}
	return w, true
}

// Walls returns every un-destroyed wall in row-major order.
func (g *Grid) Walls() []Wall {
	walls := make([]Wall, 0, len(g.cells))
	for _, w := range g.cells {
		if w.Present() {
			walls = append(walls, w)
		}
	}
	return walls
}

// Kinds returns a copy of the layout as rows of wall kinds, indexed [y][x].
func (g *Grid) Kinds() [][]WallKind {
	rows := make([][]WallKind, g.height)
	for y := range rows {
		rows[y] = make([]WallKind, g.width)
		for x := range rows[y] {
			rows[y][x] = g.cells[g.index(x, y)].Kind
		}
	}
	return rows
}

// sweepLength counts how many tiles a blast of the given radius covers in
// direction d from origin before an indestructible wall or the map edge.
// Destructible walls do not shorten the sweep.
func (g *Grid) sweepLength(origin Position, d Direction, radius int) int {
	for step := 1; step <= radius; step++ {
		p := origin.Step(d, step)
		if !g.InBounds(p.X, p.Y) {
			return step - 1
		}
		if w, ok := g.WallAt(p.X, p.Y); ok && !w.IsDestructible() {
			return step - 1
		}
	}
	return radius
}
