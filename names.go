package bough

// nameIndex keeps an optional name per slot and a reverse lookup from name to
// slots. Names need not be unique. The empty string means unnamed.
type nameIndex struct {
	names   []string
	buckets map[string][]uint32
}

func newNameIndex(capacity int) nameIndex {
	return nameIndex{
		names:   make([]string, 0, capacity),
		buckets: make(map[string][]uint32),
	}
}

func (n *nameIndex) push() {
	n.names = append(n.names, "")
}

func (n *nameIndex) add(slot uint32) {
	n.names[slot] = ""
}

// remove drops slot's name and its reverse entry.
func (n *nameIndex) remove(slot uint32) {
	n.setName(slot, "")
}

func (n *nameIndex) name(slot uint32) string {
	return n.names[slot]
}

// setName moves slot from its previous bucket into the bucket for name.
func (n *nameIndex) setName(slot uint32, name string) {
	old := n.names[slot]
	if old == name {
		return
	}
	if old != "" {
		n.unlink(old, slot)
	}
	n.names[slot] = name
	if name != "" {
		n.buckets[name] = append(n.buckets[name], slot)
	}
}

// unlink swap-removes slot from the bucket for name.
func (n *nameIndex) unlink(name string, slot uint32) {
	b := n.buckets[name]
	for i, s := range b {
		if s != slot {
			continue
		}
		last := len(b) - 1
		b[i] = b[last]
		b = b[:last]
		break
	}
	if len(b) == 0 {
		delete(n.buckets, name)
		return
	}
	n.buckets[name] = b
}

// lookup returns the slots carrying name. The returned slice MUST NOT be
// mutated by the caller.
func (n *nameIndex) lookup(name string) []uint32 {
	return n.buckets[name]
}
