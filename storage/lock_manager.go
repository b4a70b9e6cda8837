package storage

import (
	"github.com/sasha-s/go-deadlock"
)

// LockManager hands out table-level shared and exclusive locks. Scans hold a
// shared lock for as long as their cursor is open; writers take the exclusive
// lock for the duration of one statement.
type LockManager struct {
	mutex deadlock.Mutex

	exclusiveLockTable map[string]HandleId
	sharedLockTable    map[string][]HandleId
}

func NewLockManager() *LockManager {
	return &LockManager{
		exclusiveLockTable: make(map[string]HandleId),
		sharedLockTable:    make(map[string][]HandleId),
	}
}

func (lm *LockManager) LockShared(owner HandleId, tableName string) bool {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if _, ok := lm.exclusiveLockTable[tableName]; ok {
		return false
	}

	lm.sharedLockTable[tableName] = append(lm.sharedLockTable[tableName], owner)
	return true
}

func (lm *LockManager) LockExclusive(owner HandleId, tableName string) bool {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if id, ok := lm.exclusiveLockTable[tableName]; ok {
		return id == owner
	}

	if len(lm.sharedLockTable[tableName]) > 0 {
		return false
	}

	lm.exclusiveLockTable[tableName] = owner
	return true
}

func (lm *LockManager) UnlockShared(owner HandleId, tableName string) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	ids := lm.sharedLockTable[tableName]
	for i, id := range ids {
		if id == owner {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(lm.sharedLockTable, tableName)
	} else {
		lm.sharedLockTable[tableName] = ids
	}
}

func (lm *LockManager) UnlockExclusive(owner HandleId, tableName string) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if id, ok := lm.exclusiveLockTable[tableName]; ok && id == owner {
		delete(lm.exclusiveLockTable, tableName)
	}
}
