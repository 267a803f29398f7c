package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/arenasim/ragdoll/fighter"
	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/vmath"
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleArena    = styleDefault.Foreground(tcell.ColorGray)
	styleFlash    = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleStatus   = styleDefault.Foreground(tcell.ColorSilver)
	styleKO       = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	fighterStyles = [2]tcell.Style{
		styleDefault.Foreground(tcell.ColorRed),
		styleDefault.Foreground(tcell.ColorBlue),
	}
)

// segmentRune picks the glyph per segment kind
func segmentRune(name string) rune {
	switch fighter.Classify(name) {
	case fighter.LocationHead:
		return 'O'
	case fighter.LocationTorso:
		return '#'
	default:
		return '+'
	}
}

// drawFrame renders one complete frame
func (v *Viewer) drawFrame() {
	v.screen.Clear()
	v.width, v.height = v.screen.Size()

	v.drawArena()
	for i, f := range v.session.Fighters() {
		v.drawFighter(i, f)
		v.drawHealthBar(i, f)
	}
	v.drawStatus()
	v.decayFlashes()

	v.screen.Show()
}

// project maps world coordinates to a screen cell. World x spans the arena
// centered on zero, y grows upward from the floor; terminal cells are about
// twice as tall as wide, which the x scale absorbs
func (v *Viewer) project(pos vmath.Vec) (int, int) {
	wx := vmath.ToFloat(pos.X)
	wy := vmath.ToFloat(pos.Y)

	usableH := v.height - 3 // status row + health bars
	sx := float64(v.width) / v.arena.Width
	sy := float64(usableH) / v.arena.Height

	x := int((wx + v.arena.Width/2) * sx)
	y := usableH - 1 - int(wy*sy)
	return x, y + 2
}

func (v *Viewer) setCell(x, y int, r rune, style tcell.Style) {
	if x < 0 || x >= v.width || y < 0 || y >= v.height {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

func (v *Viewer) drawArena() {
	floorL, floorY := v.project(vmath.Vec{X: vmath.FromFloat(-v.arena.Width / 2), Y: 0})
	floorR, _ := v.project(vmath.Vec{X: vmath.FromFloat(v.arena.Width / 2), Y: 0})
	for x := floorL; x <= floorR; x++ {
		v.setCell(x, floorY, '=', styleArena)
	}
	_, top := v.project(vmath.Vec{X: 0, Y: vmath.FromFloat(v.arena.Height)})
	for y := top; y < floorY; y++ {
		v.setCell(floorL, y, '|', styleArena)
		v.setCell(floorR, y, '|', styleArena)
	}
}

// drawFighter renders every segment. Box segments draw a short run of cells
// along their long local axis so limbs read as strokes rather than dots
func (v *Viewer) drawFighter(idx int, f *fighter.Fighter) {
	rag := f.Ragdoll()
	if rag == nil {
		return
	}
	style := fighterStyles[idx&1]

	for _, body := range rag.Segments() {
		cur := style
		if v.flashing(f.ID, body.Label) {
			cur = styleFlash
		}
		v.drawSegment(body, cur)
	}
}

func (v *Viewer) drawSegment(body *physics.Body, style tcell.Style) {
	r := segmentRune(body.Label)
	cx, cy := v.project(body.Pos)

	if body.Shape.Kind == physics.ShapeCircle {
		v.setCell(cx, cy, r, style)
		return
	}

	// Long axis in world space, sampled at the two half-extent endpoints
	long := vmath.Vec{X: body.Shape.HalfW, Y: 0}
	if body.Shape.HalfH > body.Shape.HalfW {
		long = vmath.Vec{X: 0, Y: body.Shape.HalfH}
	}
	long = long.RotateRad(body.Angle)

	ax, ay := v.project(body.Pos.Sub(long))
	bx, by := v.project(body.Pos.Add(long))
	v.drawLine(ax, ay, bx, by, r, style)
}

// drawLine is a minimal Bresenham over screen cells
func (v *Viewer) drawLine(x0, y0, x1, y1 int, r rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		v.setCell(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// drawHealthBar renders one fighter's health strip: fighter 0 on the top
// row left half, fighter 1 right half
func (v *Viewer) drawHealthBar(idx int, f *fighter.Fighter) {
	half := v.width / 2
	barW := half - 12
	if barW < 4 {
		barW = 4
	}

	frac := 0.0
	if max := vmath.ToFloat(f.Loadout.MaxHealth); max > 0 {
		frac = vmath.ToFloat(f.Health) / max
	}
	if frac < 0 {
		frac = 0
	}
	filled := int(frac * float64(barW))

	x0 := 1
	if idx == 1 {
		x0 = half + 1
	}
	label := fmt.Sprintf("%-8s", f.Name)
	for i, ch := range label {
		v.setCell(x0+i, 0, ch, fighterStyles[idx&1])
	}
	for i := 0; i < barW; i++ {
		r := ' '
		if i < filled {
			r = '█'
		}
		v.setCell(x0+9+i, 0, r, fighterStyles[idx&1])
	}
}

func (v *Viewer) drawStatus() {
	v.statText = fmt.Sprintf(" tick %d", v.session.Ticks())
	if v.session.Paused() {
		v.statText += "  [paused: space resume, s step]"
	}
	v.statText += "  q quit  r reset"

	y := v.height - 1
	for i, ch := range v.statText {
		v.setCell(i, y, ch, styleStatus)
	}

	if v.lastKO != nil {
		msg := fmt.Sprintf(" KNOCKOUT  winner %d ", v.lastKO.Winner)
		x0 := (v.width - len(msg)) / 2
		for i, ch := range msg {
			v.setCell(x0+i, v.height/2, ch, styleKO)
		}
	}
}

func (v *Viewer) flashing(fighterID int32, segment string) bool {
	for _, fl := range v.flashes {
		if fl.fighter == fighterID && fl.segment == segment && fl.remaining > 0 {
			return true
		}
	}
	return false
}

func (v *Viewer) decayFlashes() {
	live := v.flashes[:0]
	for _, fl := range v.flashes {
		fl.remaining--
		if fl.remaining > 0 {
			live = append(live, fl)
		}
	}
	v.flashes = live
}
