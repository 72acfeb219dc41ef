package bufferpool

import "github.com/tuannm99/litescan/internal/storage"

// Loader reads and decodes one page. *storage.Pager satisfies it.
type Loader interface {
	LoadPage(pageNum uint32) (*storage.Page, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(pageNum uint32) (*storage.Page, error)

func (f LoaderFunc) LoadPage(pageNum uint32) (*storage.Page, error) { return f(pageNum) }

type Manager interface {
	GetPage(pageNum uint32) (*storage.Page, error)
	Unpin(pageNum uint32)
}

type Replacer interface {
	RecordAccess(frameID int)
	SetEvictable(frameID int, evictable bool)
	Evict() (frameID int, ok bool)
	Remove(frameID int)
	Size() int
}
