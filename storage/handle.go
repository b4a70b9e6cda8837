package storage

type HandleId int32

type HandleState int32

const (
	ACTIVE HandleState = iota
	RELEASED
)

// Handle is one open cursor over a table. It owns a shared lock on the table
// and a slot in the storage handle registry until it is released.
type Handle struct {
	id        HandleId
	state     HandleState
	tableName string
	storage   *Storage
}

func (h *Handle) GetState() HandleState {
	return h.state
}

// Release returns the handle to the registry. Releasing twice is a no-op.
func (h *Handle) Release() {
	if h.state == RELEASED {
		return
	}
	h.state = RELEASED
	h.storage.release(h)
}
