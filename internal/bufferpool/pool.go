package bufferpool

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/tuannm99/litescan/internal/storage"
)

var (
	DefaultCapacity = 128

	ErrNoFreeFrame = errors.New("bufferpool: no free frame available (all pinned)")
)

// Frame holds one decoded page. Pages are immutable, so frames are never
// dirty and eviction only drops the reference.
type Frame struct {
	PageNum uint32
	Page    *storage.Page
	Pin     int32
}

// Stats counts lookups since the pool was created.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

var _ Manager = (*Pool)(nil)

// Pool caches decoded pages keyed by page number. A page returned by
// GetPage stays resident until Unpin drops its pin count to zero.
type Pool struct {
	loader Loader

	mu        sync.Mutex
	frames    []*Frame       // len == capacity, nil == free slot
	pageTable map[uint32]int // page number -> frame index
	stats     Stats

	replacementPolicy Replacer
}

func NewPool(loader Loader, capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		loader:            loader,
		frames:            make([]*Frame, capacity),
		pageTable:         make(map[uint32]int),
		replacementPolicy: newClockReplacer(capacity),
	}
}

// GetPage returns the decoded page and pins it.
func (p *Pool) GetPage(pageNum uint32) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 1) HIT
	if idx, ok := p.pageTable[pageNum]; ok {
		if f := p.frames[idx]; f != nil {
			p.stats.Hits++
			p.pin(idx, f)
			return f.Page, nil
		}
		delete(p.pageTable, pageNum)
	}
	p.stats.Misses++

	// 2) free slot, else 3) evict
	idx := -1
	for i, f := range p.frames {
		if f == nil {
			idx = i
			break
		}
	}
	if idx == -1 {
		victim, ok := p.replacementPolicy.Evict()
		if !ok {
			return nil, ErrNoFreeFrame
		}
		f := p.frames[victim]
		if f == nil || f.Pin != 0 {
			return nil, ErrNoFreeFrame
		}
		slog.Debug("bufferpool: evict", "page", f.PageNum, "frame", victim)
		delete(p.pageTable, f.PageNum)
		p.frames[victim] = nil
		p.stats.Evictions++
		idx = victim
	}

	page, err := p.loader.LoadPage(pageNum)
	if err != nil {
		return nil, err
	}

	f := &Frame{PageNum: pageNum, Page: page}
	p.frames[idx] = f
	p.pageTable[pageNum] = idx
	p.pin(idx, f)
	return page, nil
}

func (p *Pool) pin(idx int, f *Frame) {
	f.Pin++
	p.replacementPolicy.RecordAccess(idx)
	if f.Pin == 1 {
		p.replacementPolicy.SetEvictable(idx, false)
	}
}

// Unpin releases one pin taken by GetPage. Unknown pages are ignored.
func (p *Pool) Unpin(pageNum uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.pageTable[pageNum]
	if !ok {
		return
	}
	f := p.frames[idx]
	if f == nil || f.Pin == 0 {
		return
	}
	f.Pin--
	if f.Pin == 0 {
		p.replacementPolicy.SetEvictable(idx, true)
	}
}

// Fetch loads the page and releases the pin right away. Decoded pages are
// immutable, so holding the pointer after eviction is safe.
func (p *Pool) Fetch(pageNum uint32) (*storage.Page, error) {
	page, err := p.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	p.Unpin(pageNum)
	return page, nil
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Len is the number of resident pages.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pageTable)
}
