package bough

import "github.com/go-gl/mathgl/mgl64"

// World-space queries walk the ancestor chain and compose local values
// directly, so they are correct at any time, not only after
// UpdateWorldMatrices. They share localMatrix with the cached path.

// WorldPosition returns h's position in world space.
func (m *Manager) WorldPosition(h Handle) mgl64.Vec2 {
	idx := m.slots.index(h)
	p := m.slots.transforms[idx].Position
	for _, a := range m.tree.parents(idx) {
		p = transformPoint(localMatrix(m.slots.transforms[a]), p)
	}
	return p
}

// WorldScale returns the component-wise product of h's scale and every
// ancestor's scale.
func (m *Manager) WorldScale(h Handle) mgl64.Vec2 {
	idx := m.slots.index(h)
	s := m.slots.transforms[idx].Scale
	for _, a := range m.tree.parents(idx) {
		as := m.slots.transforms[a].Scale
		s = mgl64.Vec2{s[0] * as[0], s[1] * as[1]}
	}
	return s
}

// WorldAngle returns the sum of h's rotation and every ancestor's rotation,
// in degrees.
func (m *Manager) WorldAngle(h Handle) float64 {
	idx := m.slots.index(h)
	deg := m.slots.transforms[idx].Angle
	for _, a := range m.tree.parents(idx) {
		deg += m.slots.transforms[a].Angle
	}
	return deg
}

// SetWorldPosition stores the local position that places h at p in world
// space.
func (m *Manager) SetWorldPosition(h Handle, p mgl64.Vec2) {
	idx := m.slots.index(h)
	chain := m.tree.parents(idx)
	for i := len(chain) - 1; i >= 0; i-- {
		p = transformPoint(invertAffine(localMatrix(m.slots.transforms[chain[i]])), p)
	}
	m.slots.transforms[idx].Position = p
	m.tree.markDirty(idx)
}

// SetWorldScale stores the local scale that gives h a world scale of s. An
// axis whose inherited scale is zero keeps its current local value.
func (m *Manager) SetWorldScale(h Handle, s mgl64.Vec2) {
	idx := m.slots.index(h)
	inherited := mgl64.Vec2{1, 1}
	for _, a := range m.tree.parents(idx) {
		as := m.slots.transforms[a].Scale
		inherited = mgl64.Vec2{inherited[0] * as[0], inherited[1] * as[1]}
	}
	local := m.slots.transforms[idx].Scale
	for axis := range 2 {
		if inherited[axis] != 0 {
			local[axis] = s[axis] / inherited[axis]
		}
	}
	m.slots.transforms[idx].Scale = local
	m.tree.markDirty(idx)
}

// SetWorldAngle stores the local rotation that gives h a world rotation of
// deg degrees.
func (m *Manager) SetWorldAngle(h Handle, deg float64) {
	idx := m.slots.index(h)
	chain := m.tree.parents(idx)
	for i := len(chain) - 1; i >= 0; i-- {
		deg -= m.slots.transforms[chain[i]].Angle
	}
	m.slots.transforms[idx].Angle = deg
	m.tree.markDirty(idx)
}
