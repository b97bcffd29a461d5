// Package report renders the paginated PDF: chart pages, the yearly summary
// table and the year-cohort card grids.
package report

// CardSpec is the fixed geometry of one book card, in page units.
type CardSpec struct {
	// Width and Height bound the cover image box
	Width  float64
	Height float64
	// Margin is the requested inter-card spacing before redistribution
	Margin float64
	// TextAllowance is the vertical room reserved under the image for the
	// title/author/pages lines
	TextAllowance float64
}

// DefaultCardSpec returns the report's card geometry.
func DefaultCardSpec() CardSpec {
	return CardSpec{Width: 30, Height: 45, Margin: 5, TextAllowance: 18}
}

// PageFrame describes the printable region the grid flows into.
type PageFrame struct {
	Left      float64 // left margin
	Right     float64 // right margin
	PageWidth float64
	Top       float64 // content origin below the section heading
	BreakAt   float64 // y threshold that triggers a page break
}

// Placement is the slot assigned to one card.
type Placement struct {
	X, Y float64
	// Page counts pages within the section, starting at 0
	Page int
	// NewPage is set when the caller must start a new page before drawing
	NewPage bool
}

// Grid walks card slots across a page: left to right, wrapping to a new row
// at the right boundary and signalling a page break when a row would cross
// the break threshold. Column count and gutter are derived once per frame.
type Grid struct {
	spec    CardSpec
	frame   PageFrame
	columns int
	gutter  float64
	x, y    float64
	page    int
}

const boundaryEpsilon = 1e-6

// NewGrid derives the column count and gutter for the frame and positions
// the cursor at the top-left content origin.
func NewGrid(spec CardSpec, frame PageFrame) *Grid {
	avail := frame.PageWidth - frame.Left - frame.Right

	columns := int((avail + spec.Margin) / (spec.Width + spec.Margin))
	if columns < 1 {
		columns = 1
	}

	// Spread the leftover width into the gutters so each row fills the
	// available width exactly. A single column keeps the leftover as one
	// trailing margin.
	leftover := avail - float64(columns)*spec.Width
	gutter := leftover
	if columns > 1 {
		gutter = leftover / float64(columns-1)
	}

	return &Grid{
		spec:    spec,
		frame:   frame,
		columns: columns,
		gutter:  gutter,
		x:       frame.Left,
		y:       frame.Top,
	}
}

// Columns returns the derived column count.
func (g *Grid) Columns() int {
	return g.columns
}

// Gutter returns the redistributed inter-card spacing.
func (g *Grid) Gutter() float64 {
	return g.gutter
}

// RowHeight returns the vertical advance per card row.
func (g *Grid) RowHeight() float64 {
	return g.spec.Height + g.spec.TextAllowance
}

// Place assigns the next card slot and advances the cursor.
func (g *Grid) Place() Placement {
	rightBound := g.frame.PageWidth - g.frame.Right

	// Wrap when the card would cross the right boundary.
	if g.x+g.spec.Width > rightBound+boundaryEpsilon {
		g.x = g.frame.Left
		g.y += g.RowHeight()
	}

	// Break when the row would cross the page threshold.
	newPage := false
	if g.y+g.RowHeight() > g.frame.BreakAt {
		g.page++
		g.x = g.frame.Left
		g.y = g.frame.Top
		newPage = true
	}

	p := Placement{X: g.x, Y: g.y, Page: g.page, NewPage: newPage}
	g.x += g.spec.Width + g.gutter

	return p
}
