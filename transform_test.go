package bough

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec2, tol float64) {
	t.Helper()
	if math.Abs(got[0]-want[0]) > tol || math.Abs(got[1]-want[1]) > tol {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want mgl64.Mat3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// assertAngle compares two angles in degrees modulo 360.
func assertAngle(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	d := math.Mod(got-want, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	if math.Abs(d) > tol {
		t.Errorf("%s = %v, want %v (mod 360)", name, got, want)
	}
}

func assertPanics(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", contains)
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, contains) {
			t.Errorf("panic = %q, want it to contain %q", msg, contains)
		}
	}()
	fn()
}

// --- localMatrix ---

func TestLocalMatrixIdentity(t *testing.T) {
	assertMatrix(t, "identity", localMatrix(DefaultTransform()), mgl64.Ident3())
}

func TestLocalMatrixTranslation(t *testing.T) {
	tr := DefaultTransform()
	tr.Position = mgl64.Vec2{10, 20}
	assertMatrix(t, "translation", localMatrix(tr), mgl64.Translate2D(10, 20))
}

func TestLocalMatrixScale(t *testing.T) {
	tr := DefaultTransform()
	tr.Scale = mgl64.Vec2{2, 3}
	assertMatrix(t, "scale", localMatrix(tr), mgl64.Mat3{2, 0, 0, 0, 3, 0, 0, 0, 1})
}

func TestLocalMatrixRotation90(t *testing.T) {
	tr := DefaultTransform()
	tr.Angle = 90
	// cos(90)=0, sin(90)=1 -> a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", localMatrix(tr), mgl64.Mat3{0, 1, 0, -1, 0, 0, 0, 0, 1})
}

func TestLocalMatrixMatchesComposition(t *testing.T) {
	tr := Transform{Position: mgl64.Vec2{50, 100}, Scale: mgl64.Vec2{2, 0.5}, Angle: 30}
	want := mgl64.Translate2D(50, 100).
		Mul3(mgl64.HomogRotate2D(mgl64.DegToRad(30))).
		Mul3(mgl64.Scale2D(2, 0.5))
	assertMatrix(t, "T*R*S", localMatrix(tr), want)
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := localMatrix(Transform{Position: mgl64.Vec2{10, 20}, Scale: mgl64.Vec2{2, 3}, Angle: 60})
	assertMatrix(t, "m*inv=id", m.Mul3(invertAffine(m)), mgl64.Ident3())
}

func TestInvertAffineSingular(t *testing.T) {
	m := localMatrix(Transform{Position: mgl64.Vec2{10, 20}})
	assertMatrix(t, "singular", invertAffine(m), mgl64.Ident3())
}

// --- transformPoint / Decompose ---

func TestTransformPoint(t *testing.T) {
	m := localMatrix(Transform{Position: mgl64.Vec2{5, 5}, Scale: mgl64.Vec2{2, 2}, Angle: 90})
	// (1,0) scaled to (2,0), rotated to (0,2), translated to (5,7).
	assertVec(t, "point", transformPoint(m, mgl64.Vec2{1, 0}), mgl64.Vec2{5, 7}, epsilon)
}

func TestDecompose(t *testing.T) {
	m := localMatrix(Transform{Position: mgl64.Vec2{-3, 4}, Scale: mgl64.Vec2{2, 5}, Angle: 135})
	pos, scale, angle := Decompose(m)
	assertVec(t, "position", pos, mgl64.Vec2{-3, 4}, epsilon)
	assertVec(t, "scale", scale, mgl64.Vec2{2, 5}, epsilon)
	assertNear(t, "angle", angle, 135)
}
