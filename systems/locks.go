package systems

import "sync"

// paddedMutex keeps neighboring cell locks on separate cache lines.
type paddedMutex struct {
	sync.Mutex
	_ [56]byte
}

// CellLockTable holds one mutex per grid cell.
//
// Whenever two cells must be held at once, LockPair is the only entry point:
// it always acquires the lower flat index first, so two workers approaching
// the same pair from opposite sides cannot wait on each other.
type CellLockTable struct {
	locks []paddedMutex
}

// NewCellLockTable allocates n cell locks.
func NewCellLockTable(n int) *CellLockTable {
	return &CellLockTable{locks: make([]paddedMutex, n)}
}

// Len returns the number of locks.
func (t *CellLockTable) Len() int {
	return len(t.locks)
}

// Lock acquires a single cell.
func (t *CellLockTable) Lock(cell int) {
	t.locks[cell].Lock()
}

// Unlock releases a single cell.
func (t *CellLockTable) Unlock(cell int) {
	t.locks[cell].Unlock()
}

// LockPair acquires both cells in ascending order. a == b locks once.
func (t *CellLockTable) LockPair(a, b int) {
	if a == b {
		t.locks[a].Lock()
		return
	}
	if a > b {
		a, b = b, a
	}
	t.locks[a].Lock()
	t.locks[b].Lock()
}

// UnlockPair releases a pair taken with LockPair, in reverse order.
func (t *CellLockTable) UnlockPair(a, b int) {
	if a == b {
		t.locks[a].Unlock()
		return
	}
	if a > b {
		a, b = b, a
	}
	t.locks[b].Unlock()
	t.locks[a].Unlock()
}
