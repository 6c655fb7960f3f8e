// Package render draws the operator panel on a tcell screen
package render

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/vi-operator/display"
	"github.com/lixenwraith/vi-operator/engine"
	"github.com/lixenwraith/vi-operator/parameter"
)

var (
	rgbPanelBorder = tcell.NewRGBColor(90, 90, 110)
	rgbPanelText   = tcell.NewRGBColor(220, 220, 220)
	rgbPanelDim    = tcell.NewRGBColor(120, 120, 130)
	rgbPanelBar    = tcell.NewRGBColor(120, 130, 230)
	rgbBackground  = tcell.NewRGBColor(16, 16, 24)
)

// Panel implements display.Panel on a tcell screen
// Show and Hide record state; Draw paints it from the render loop
type Panel struct {
	mu      sync.Mutex
	screen  tcell.Screen
	clock   engine.TimeProvider
	frame   display.Frame
	shownAt time.Time
	visible bool

	// last painted rectangle, cleared on hide or move
	lastX, lastY, lastW, lastH int
}

// NewPanel creates a panel renderer
func NewPanel(screen tcell.Screen, clock engine.TimeProvider) *Panel {
	return &Panel{screen: screen, clock: clock}
}

// Show implements display.Panel
func (p *Panel) Show(f display.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame = f
	p.shownAt = p.clock.Now()
	p.visible = true
}

// Hide implements display.Panel
func (p *Panel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
}

// Visible reports whether a frame is on screen
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Draw paints the panel for the current clock time without calling Show on the screen
func (p *Panel) Draw() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearLast()
	if !p.visible {
		return
	}

	now := p.clock.Now()
	elapsed := now.Sub(p.shownAt)
	f := p.frame

	sw, _ := p.screen.Size()
	w := min(parameter.PanelWidth, sw)
	if w < 8 {
		return
	}
	inner := w - 4
	lines := wrap(f.Text, inner)
	h := max(parameter.PanelMinHeight, len(lines)+4)

	x := max(0, sw-w-1) + shakeOffset(f.Shake, elapsed)
	x = max(0, min(x, sw-w))
	y := 1

	base := tcell.StyleDefault.Background(rgbBackground)
	border := base.Foreground(rgbPanelBorder)
	drawBox(p.screen, x, y, w, h, border)

	name := base.Foreground(tcell.NewRGBColor(int32(f.NameColor.R), int32(f.NameColor.G), int32(f.NameColor.B))).Bold(true)
	col := drawString(p.screen, x+2, y+1, inner, f.Speaker, name)
	if f.Portrait != "" && col < x+2+inner-2 {
		drawString(p.screen, col+1, y+1, x+2+inner-col-1, "["+f.Portrait+"]", base.Foreground(rgbPanelDim))
	}

	text := base.Foreground(rgbPanelText)
	for i, line := range lines {
		drawString(p.screen, x+2, y+2+i, inner, line, text)
	}

	if f.Lifetime > 0 {
		drawProgress(p.screen, x+2, y+h-2, inner, 1-elapsed.Seconds()/f.Lifetime.Seconds(), base.Foreground(rgbPanelBar))
	}

	p.lastX, p.lastY, p.lastW, p.lastH = x, y, w, h
}

func (p *Panel) clearLast() {
	if p.lastW == 0 {
		return
	}
	for row := p.lastY; row < p.lastY+p.lastH; row++ {
		for col := p.lastX; col < p.lastX+p.lastW; col++ {
			p.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
	p.lastW, p.lastH = 0, 0
}

// shakeOffset is a decaying horizontal jitter for warning panels
func shakeOffset(shake bool, elapsed time.Duration) int {
	if !shake || elapsed < 0 || elapsed >= parameter.PanelShakeDuration {
		return 0
	}
	decay := 1 - elapsed.Seconds()/parameter.PanelShakeDuration.Seconds()
	v := float64(parameter.PanelShakeAmplitude) * decay * math.Sin(elapsed.Seconds()*40)
	return int(math.Round(v))
}

func drawBox(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for col := x; col < x+w; col++ {
		for row := y; row < y+h; row++ {
			s.SetContent(col, row, ' ', nil, style)
		}
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h-1, tcell.RuneHLine, nil, style)
	}
	for row := y; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w-1, row, tcell.RuneVLine, nil, style)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w-1, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, style)
}

// drawString writes str clipped to width cells and returns the next column
func drawString(s tcell.Screen, x, y, width int, str string, style tcell.Style) int {
	col := x
	for _, r := range str {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > x+width {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col += rw
	}
	return col
}

func drawProgress(s tcell.Screen, x, y, width int, frac float64, style tcell.Style) {
	frac = max(0, min(1, frac))
	filled := int(math.Round(frac * float64(width)))
	for i := 0; i < width; i++ {
		r := '─'
		if i < filled {
			r = '━'
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}

// wrap breaks text into lines of at most width cells
// Explicit newlines are kept; words longer than a line are split
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		lineW := 0
		flush := func() {
			out = append(out, line.String())
			line.Reset()
			lineW = 0
		}
		for _, word := range strings.Fields(para) {
			ww := runewidth.StringWidth(word)
			if lineW > 0 && lineW+1+ww > width {
				flush()
			}
			if lineW > 0 {
				line.WriteByte(' ')
				lineW++
			}
			for ww > width-lineW {
				head := runewidth.Truncate(word, width-lineW, "")
				if head == "" {
					break
				}
				line.WriteString(head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
				flush()
			}
			line.WriteString(word)
			lineW += ww
		}
		flush()
	}
	return out
}
