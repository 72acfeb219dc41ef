package bufferpool

// clockReplacer implements CLOCK (second-chance) replacement over frame
// ids [0..capacity).
type clockReplacer struct {
	ref       []bool
	evictable []bool
	present   []bool
	hand      int
	size      int // number of evictable frames
}

func newClockReplacer(capacity int) Replacer {
	if capacity <= 0 {
		capacity = 1
	}
	return &clockReplacer{
		ref:       make([]bool, capacity),
		evictable: make([]bool, capacity),
		present:   make([]bool, capacity),
	}
}

func (c *clockReplacer) inRange(id int) bool { return id >= 0 && id < len(c.ref) }

// RecordAccess marks the frame as recently used.
func (c *clockReplacer) RecordAccess(id int) {
	if !c.inRange(id) {
		return
	}
	c.present[id] = true
	c.ref[id] = true
}

// SetEvictable is ignored for frames never accessed.
func (c *clockReplacer) SetEvictable(id int, evictable bool) {
	if !c.inRange(id) || !c.present[id] || c.evictable[id] == evictable {
		return
	}
	c.evictable[id] = evictable
	if evictable {
		c.size++
	} else {
		c.size--
	}
}

// Evict returns a victim and stops tracking it.
func (c *clockReplacer) Evict() (int, bool) {
	n := len(c.ref)
	if c.size == 0 {
		return -1, false
	}

	// two sweeps clear every ref bit at most once
	for range 2 * n {
		idx := c.hand
		c.hand = (c.hand + 1) % n

		if !c.present[idx] || !c.evictable[idx] {
			continue
		}
		if c.ref[idx] {
			c.ref[idx] = false
			continue
		}
		c.clear(idx)
		return idx, true
	}
	return -1, false
}

func (c *clockReplacer) Remove(id int) {
	if !c.inRange(id) || !c.present[id] {
		return
	}
	c.clear(id)
}

func (c *clockReplacer) clear(id int) {
	if c.evictable[id] {
		c.size--
	}
	c.present[id] = false
	c.evictable[id] = false
	c.ref[id] = false
}

func (c *clockReplacer) Size() int { return c.size }
