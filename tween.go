package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/zucenko/gridbot/model"
)

// Flash fades a cell highlight out, e.g. after a rejected touch.
type Flash struct {
	cell    model.Cell
	alpha   float32
	R, G, B float32
}

const flashSeconds = 0.4

func (g *Game) flash(c model.Cell, r, gr, b float32) {
	f := &Flash{cell: c, alpha: 1, R: r, G: gr, B: b}
	g.Flashes[gween.New(1, 0, flashSeconds, ease.OutQuad)] = f
}

func (g *Game) updateFlashes(dt float32) {
	for t, f := range g.Flashes {
		curr, finished := t.Update(dt)
		f.alpha = curr
		if finished {
			delete(g.Flashes, t)
		}
	}
}
