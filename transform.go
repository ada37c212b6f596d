package bough

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// localMatrix builds the affine matrix for a local transform.
//
// Composition order, applied to a column vector:
//
//	Scale -> Rotate(Angle) -> Translate(Position)
//
// mgl64 matrices are column-major:
//
//	| a  c  tx |      [0] [3] [6]
//	| b  d  ty |  ->  [1] [4] [7]
//	| 0  0   1 |      [2] [5] [8]
func localMatrix(t Transform) mgl64.Mat3 {
	sin, cos := math.Sincos(mgl64.DegToRad(t.Angle))
	sx, sy := t.Scale[0], t.Scale[1]
	return mgl64.Mat3{
		cos * sx, sin * sx, 0,
		-sin * sy, cos * sy, 0,
		t.Position[0], t.Position[1], 1,
	}
}

// invertAffine computes the inverse of an affine matrix. Returns the identity
// if the matrix is singular (determinant ≈ 0), e.g. after a zero scale.
func invertAffine(m mgl64.Mat3) mgl64.Mat3 {
	det := m[0]*m[4] - m[3]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return mgl64.Ident3()
	}
	invDet := 1.0 / det
	a := m[4] * invDet
	b := -m[1] * invDet
	c := -m[3] * invDet
	d := m[0] * invDet
	return mgl64.Mat3{
		a, b, 0,
		c, d, 0,
		-(a*m[6] + c*m[7]), -(b*m[6] + d*m[7]), 1,
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m mgl64.Mat3, p mgl64.Vec2) mgl64.Vec2 {
	return m.Mul3x1(p.Vec3(1)).Vec2()
}

// Decompose extracts translation, absolute axis scale, and rotation in
// degrees from an affine matrix. The result is exact for matrices built from
// non-negative scales where every ancestor with a rotation has uniform scale.
func Decompose(m mgl64.Mat3) (position, scale mgl64.Vec2, angle float64) {
	position = mgl64.Vec2{m[6], m[7]}
	scale = mgl64.Vec2{
		math.Hypot(m[0], m[1]),
		math.Hypot(m[3], m[4]),
	}
	angle = mgl64.RadToDeg(math.Atan2(m[1], m[0]))
	return position, scale, angle
}
