package bough

import "go.uber.org/zap"

// debugLog reports per-frame update stats. Only called in debug mode.
func (m *Manager) debugLog(stats FrameStats) {
	m.log.Debug("world matrices updated",
		zap.Int("recomputed", stats.Recomputed),
		zap.Duration("elapsed", stats.Duration),
		zap.Int("live", m.slots.live()),
		zap.Int("slots", m.slots.len()),
	)
}

// debugCheckTreeDepth warns if slot or any of its descendants sits deeper
// than the configured threshold. Only the deepest node is reported.
func (m *Manager) debugCheckTreeDepth(slot uint32) {
	deepest := slot
	for _, s := range m.tree.slotAndDescendants(slot) {
		if m.tree.depth[s] > m.tree.depth[deepest] {
			deepest = s
		}
	}
	depth := int(m.tree.depth[deepest]) + 1
	if depth > m.opts.MaxTreeDepth {
		m.log.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth),
			zap.Int("threshold", m.opts.MaxTreeDepth),
			zap.String("path", m.PathOf(m.slots.handle(deepest))),
		)
	}
}

// debugCheckChildCount warns if slot has more children than the configured
// threshold.
func (m *Manager) debugCheckChildCount(slot uint32) {
	n := len(m.tree.children[slot])
	if n > m.opts.MaxChildren {
		m.log.Warn("child count exceeds threshold",
			zap.Int("children", n),
			zap.Int("threshold", m.opts.MaxChildren),
			zap.String("path", m.PathOf(m.slots.handle(slot))),
		)
	}
}
