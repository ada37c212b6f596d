package bough

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 2 transform fields of one handle at once.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAngle) and call Update(dt) each frame. The group writes through the
// Manager, so the handle is marked dirty on every step. If the handle is
// freed, the group stops immediately.
//
// There is no global animation manager. Callers drive Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	count  int
	apply  func(vals [2]float64)
	m      *Manager
	target Handle
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target handle is no longer valid, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.m.Valid(g.target) {
		g.Done = true
		return
	}

	var vals [2]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// TweenPosition animates h's local position to (toX, toY).
func TweenPosition(m *Manager, h Handle, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := m.Position(h)
	g := &TweenGroup{count: 2, m: m, target: h}
	g.tweens[0] = gween.New(float32(from[0]), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(from[1]), float32(toY), duration, fn)
	g.apply = func(v [2]float64) {
		pos := m.Position(h)
		pos[0], pos[1] = v[0], v[1]
		m.SetPosition(h, pos)
	}
	return g
}

// TweenScale animates h's local scale to (toSX, toSY).
func TweenScale(m *Manager, h Handle, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := m.Scale(h)
	g := &TweenGroup{count: 2, m: m, target: h}
	g.tweens[0] = gween.New(float32(from[0]), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(from[1]), float32(toSY), duration, fn)
	g.apply = func(v [2]float64) {
		s := m.Scale(h)
		s[0], s[1] = v[0], v[1]
		m.SetScale(h, s)
	}
	return g
}

// TweenAngle animates h's local rotation to deg degrees.
func TweenAngle(m *Manager, h Handle, deg float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, m: m, target: h}
	g.tweens[0] = gween.New(float32(m.Angle(h)), float32(deg), duration, fn)
	g.apply = func(v [2]float64) { m.SetAngle(h, v[0]) }
	return g
}

// TweenWorldPosition animates h's world position to (toX, toY). The local
// position is re-solved each step, so the target is reached even if an
// ancestor moves during the tween.
func TweenWorldPosition(m *Manager, h Handle, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := m.WorldPosition(h)
	g := &TweenGroup{count: 2, m: m, target: h}
	g.tweens[0] = gween.New(float32(from[0]), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(from[1]), float32(toY), duration, fn)
	g.apply = func(v [2]float64) {
		m.SetWorldPosition(h, mgl64.Vec2{v[0], v[1]})
	}
	return g
}
