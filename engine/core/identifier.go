package core

import "sync"

// InvalidIdentity is never issued by an allocator.
const InvalidIdentity uint64 = 0

// IdentityAllocator issues monotonically increasing identities for loaded
// resources. Identities are never reused, so dependency bookkeeping can rely
// on them staying unique for the lifetime of the process. Each asset pipeline
// owns one allocator and passes it to the systems it constructs; there is no
// package-global counter.
type IdentityAllocator struct {
	mu   sync.Mutex
	next uint64
}

func NewIdentityAllocator() *IdentityAllocator {
	return &IdentityAllocator{next: 1}
}

// Next returns a fresh identity. Safe for concurrent use.
func (a *IdentityAllocator) Next() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}
