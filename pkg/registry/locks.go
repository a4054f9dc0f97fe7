package registry

import "sync"

// lockEntry guards one subject. refs counts the operations holding or waiting on mu.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// keyLocks maps subject IDs to their mutex. Entries live only while an operation references them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*lockEntry)}
}

// acquire pins the entry for a subject, creating it on first use.
// Every acquire is paired with a release once entry.mu has been unlocked.
func (k *keyLocks) acquire(key string) *lockEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry := k.locks[key]
	if entry == nil {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release unpins the entry and drops it when no operation on the subject remains.
func (k *keyLocks) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, ok := k.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
}

// size reports how many subjects currently have an entry.
func (k *keyLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
