// Package ebitenx converts bough world matrices into ebiten draw transforms.
package ebitenx

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/bough"
)

// GeoM converts a column-major affine matrix into an ebiten.GeoM.
//
//	| m[0] m[3] m[6] |     | a  c  tx |
//	| m[1] m[4] m[7] |  =  | b  d  ty |
func GeoM(m mgl64.Mat3) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[3])
	g.SetElement(0, 2, m[6])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[7])
	return g
}

// WorldGeoM returns the cached world matrix of h as an ebiten.GeoM. Call
// UpdateWorldMatrices first.
func WorldGeoM(mgr *bough.Manager, h bough.Handle) ebiten.GeoM {
	return GeoM(mgr.WorldMatrix(h))
}

// DrawOptions fills op.GeoM with a pivot offset followed by the world matrix
// of h, so an image is drawn centred on its transform origin when pivot is
// half the image size.
func DrawOptions(mgr *bough.Manager, h bough.Handle, pivot mgl64.Vec2, op *ebiten.DrawImageOptions) {
	op.GeoM.Reset()
	op.GeoM.Translate(-pivot[0], -pivot[1])
	op.GeoM.Concat(WorldGeoM(mgr, h))
}
