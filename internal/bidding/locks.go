package bidding

import "sync"

// listingLocks hands out one mutex per listing ID so bid placement can
// optionally be serialized per listing. Entries are never evicted; the
// map grows with the number of listings that have seen bids, which is
// bounded by the catalogue size.
type listingLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newListingLocks() *listingLocks {
	return &listingLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// lock acquires the mutex for the listing and returns its unlock func
func (l *listingLocks) lock(listingID string) func() {
	l.mu.Lock()
	m, exists := l.locks[listingID]
	if !exists {
		m = &sync.Mutex{}
		l.locks[listingID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
