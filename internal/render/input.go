package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState is the primary pointer as seen during one tick.
type PointerState struct {
	X, Y float32
	// Pressed reports the pointer went down this tick.
	Pressed bool
	// Released reports the pointer went up this tick.
	Released bool
	// Down reports the pointer is held.
	Down bool
}

// InputSource abstracts polled input so the Game can be driven in tests.
type InputSource interface {
	Pointer() PointerState
	KeyJustPressed(key ebiten.Key) bool
}

// ebitenInput merges the left mouse button and the first active touch
// into a single pointer.
type ebitenInput struct {
	touch    ebiten.TouchID
	touching bool
	ids      []ebiten.TouchID
}

// NewEbitenInput returns the InputSource backed by Ebiten's mouse, touch
// and keyboard state. It must be polled from the game loop.
func NewEbitenInput() InputSource {
	return &ebitenInput{}
}

func (in *ebitenInput) Pointer() PointerState {
	if st, ok := in.touchPointer(); ok {
		return st
	}
	x, y := ebiten.CursorPosition()
	return PointerState{
		X:        float32(x),
		Y:        float32(y),
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Down:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
}

// touchPointer follows one touch from press to release and ignores any
// others started meanwhile.
func (in *ebitenInput) touchPointer() (PointerState, bool) {
	if !in.touching {
		in.ids = inpututil.AppendJustPressedTouchIDs(in.ids[:0])
		if len(in.ids) == 0 {
			return PointerState{}, false
		}
		in.touch = in.ids[0]
		in.touching = true
		x, y := ebiten.TouchPosition(in.touch)
		return PointerState{X: float32(x), Y: float32(y), Pressed: true, Down: true}, true
	}

	if inpututil.IsTouchJustReleased(in.touch) {
		in.touching = false
		x, y := inpututil.TouchPositionInPreviousTick(in.touch)
		return PointerState{X: float32(x), Y: float32(y), Released: true}, true
	}
	x, y := ebiten.TouchPosition(in.touch)
	return PointerState{X: float32(x), Y: float32(y), Down: true}, true
}

func (in *ebitenInput) KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
