package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-tessplay/internal/scene"
)

const (
	hudFontSize = 12.0
	hudMargin   = 8.0
)

var (
	hudColor   = color.RGBA{R: 0xeb, G: 0xdb, B: 0xb2, A: 0xff}
	hudShadow  = color.RGBA{A: 0xc0}
	hudFontSrc *text.GoTextFaceSource
)

func init() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		// The font is embedded; failing here is a build problem.
		panic("failed to load embedded font: " + err.Error())
	}
	hudFontSrc = src
}

// StatusReporter is implemented by stages that describe themselves on
// the heads-up display.
type StatusReporter interface {
	Status() []string
}

// HUD draws a few lines of diagnostics in the top-left corner.
type HUD struct {
	face  *text.GoTextFace
	lines []string
}

// NewHUD returns a HUD using the embedded monospace font.
func NewHUD() *HUD {
	return &HUD{face: &text.GoTextFace{Source: hudFontSrc, Size: hudFontSize}}
}

// LineHeight returns the distance between baselines.
func (h *HUD) LineHeight() float64 { return hudFontSize * 1.2 }

// Update rebuilds the lines from the stage status and the frame counters.
func (h *HUD) Update(stage Stage, frame FrameSnapshot, raster scene.RasterStats, paused bool) {
	h.lines = h.lines[:0]
	if r, ok := stage.(StatusReporter); ok {
		h.lines = append(h.lines, r.Status()...)
	}
	h.lines = append(h.lines,
		fmt.Sprintf("%.1f fps  tick %s", frame.FPS, frame.Last),
		fmt.Sprintf("%d triangles  %d draws  %d clips", raster.Triangles, raster.DrawCalls, raster.ClipRegions),
	)
	if paused {
		h.lines = append(h.lines, "paused")
	}
}

// Lines returns the text drawn by the last Draw.
func (h *HUD) Lines() []string { return h.lines }

// Draw renders the lines with a one-pixel drop shadow.
func (h *HUD) Draw(screen *ebiten.Image) {
	y := hudMargin
	for _, line := range h.lines {
		h.drawLine(screen, line, hudMargin+1, y+1, hudShadow)
		h.drawLine(screen, line, hudMargin, y, hudColor)
		y += h.LineHeight()
	}
}

func (h *HUD) drawLine(screen *ebiten.Image, s string, x, y float64, clr color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, h.face, op)
}
