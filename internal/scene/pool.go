package scene

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxPooledPerSize bounds how many idle images of one size are kept.
const maxPooledPerSize = 4

type imageSize struct{ w, h int }

// ImagePool recycles offscreen images by size. It is safe for concurrent
// use.
type ImagePool struct {
	mu    sync.Mutex
	free  map[imageSize][]*ebiten.Image
	inUse int
}

// NewImagePool returns an empty pool.
func NewImagePool() *ImagePool {
	return &ImagePool{free: make(map[imageSize][]*ebiten.Image)}
}

// Get returns a cleared image of the given size.
func (p *ImagePool) Get(w, h int) *ebiten.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse++
	key := imageSize{w, h}
	if imgs := p.free[key]; len(imgs) > 0 {
		img := imgs[len(imgs)-1]
		p.free[key] = imgs[:len(imgs)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImage(w, h)
}

// Put returns img to the pool. Images beyond the per-size limit are
// deallocated.
func (p *ImagePool) Put(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := imageSize{b.Dx(), b.Dy()}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse--
	if len(p.free[key]) >= maxPooledPerSize {
		img.Deallocate()
		return
	}
	p.free[key] = append(p.free[key], img)
}

// Idle returns the number of pooled images waiting for reuse.
func (p *ImagePool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, imgs := range p.free {
		n += len(imgs)
	}
	return n
}

// Release deallocates every idle image.
func (p *ImagePool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, imgs := range p.free {
		for _, img := range imgs {
			img.Deallocate()
		}
		delete(p.free, key)
	}
}
