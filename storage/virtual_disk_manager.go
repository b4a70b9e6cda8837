package storage

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dsnet/golib/memfile"
	"github.com/sasha-s/go-deadlock"
	"tsumikidb/common"
)

// VirtualDiskManager keeps every table file in memory. Used for tests and
// when no data directory is configured.
type VirtualDiskManager struct {
	mutex  deadlock.Mutex
	tables map[string]*memfile.File
	files  map[string][]byte
}

func NewVirtualDiskManager() *VirtualDiskManager {
	return &VirtualDiskManager{
		tables: make(map[string]*memfile.File),
		files:  make(map[string][]byte),
	}
}

func (d *VirtualDiskManager) ReadPage(tableName string, pageId uint64) ([PageByteSize]byte, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var page [PageByteSize]byte
	f, ok := d.tables[tableName]
	if !ok || int64(pageId+1)*PageByteSize > int64(len(f.Bytes())) {
		return page, errors.Wrapf(common.ErrPageNotFound, "%s page %d", tableName, pageId)
	}
	if _, err := f.ReadAt(page[:], int64(pageId)*PageByteSize); err != nil {
		return page, err
	}
	return page, nil
}

func (d *VirtualDiskManager) WritePage(tableName string, pageId uint64, data [PageByteSize]byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	f, ok := d.tables[tableName]
	if !ok {
		f = memfile.New(make([]byte, 0))
		d.tables[tableName] = f
	}
	_, err := f.WriteAt(data[:], int64(pageId)*PageByteSize)
	return err
}

func (d *VirtualDiskManager) NumPages(tableName string) (uint64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	f, ok := d.tables[tableName]
	if !ok {
		return 0, nil
	}
	return uint64(len(f.Bytes())) / PageByteSize, nil
}

func (d *VirtualDiskManager) ReadFile(path string) ([]byte, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	b, ok := d.files[path]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "virtual file %s", path)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (d *VirtualDiskManager) WriteFile(path string, data []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	b := make([]byte, len(data))
	copy(b, data)
	d.files[path] = b
	return nil
}

func (d *VirtualDiskManager) RemoveFile(path string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, ok := d.files[path]; !ok {
		return errors.Wrapf(os.ErrNotExist, "virtual file %s", path)
	}
	delete(d.files, path)
	return nil
}

func (d *VirtualDiskManager) ShutDown() error {
	return nil
}
