package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
)

// DiskManager moves whole pages and small side files (catalog, indexes)
// between memory and the backing medium.
type DiskManager interface {
	ReadPage(tableName string, pageId uint64) ([PageByteSize]byte, error)
	WritePage(tableName string, pageId uint64, data [PageByteSize]byte) error
	NumPages(tableName string) (uint64, error)
	// ReadFile fails with an error matching os.ErrNotExist when path is missing.
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	// RemoveFile fails with an error matching os.ErrNotExist when path is missing.
	RemoveFile(path string) error
	ShutDown() error
}

type FileDiskManager struct {
	BasePath string
}

func NewFileDiskManager(basePath string) (*FileDiskManager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", basePath)
	}
	return &FileDiskManager{
		BasePath: basePath,
	}, nil
}

func (d *FileDiskManager) makeTableFilePath(tableName string) string {
	return fmt.Sprintf("%s/%s.tbl", d.BasePath, tableName)
}

func (d *FileDiskManager) makeGeneralFilePath(path string) string {
	return fmt.Sprintf("%s/%s", d.BasePath, path)
}

func (d *FileDiskManager) ReadPage(tableName string, pageId uint64) ([PageByteSize]byte, error) {
	var page [PageByteSize]byte

	f, err := os.Open(d.makeTableFilePath(tableName))
	if errors.Is(err, os.ErrNotExist) {
		return page, errors.Wrapf(common.ErrPageNotFound, "%s page %d", tableName, pageId)
	}
	if err != nil {
		return page, err
	}
	defer f.Close()

	n, err := f.ReadAt(page[:], int64(pageId)*PageByteSize)
	if err == io.EOF && n == 0 {
		return page, errors.Wrapf(common.ErrPageNotFound, "%s page %d", tableName, pageId)
	}
	if err != nil && err != io.EOF {
		return page, err
	}
	return page, nil
}

func (d *FileDiskManager) WritePage(tableName string, pageId uint64, data [PageByteSize]byte) error {
	f, err := os.OpenFile(d.makeTableFilePath(tableName), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteAt(data[:], int64(pageId)*PageByteSize); err != nil {
		return err
	}
	return f.Sync()
}

func (d *FileDiskManager) NumPages(tableName string) (uint64, error) {
	info, err := os.Stat(d.makeTableFilePath(tableName))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()) / PageByteSize, nil
}

func (d *FileDiskManager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(d.makeGeneralFilePath(path))
}

func (d *FileDiskManager) WriteFile(path string, data []byte) error {
	p := d.makeGeneralFilePath(path)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func (d *FileDiskManager) RemoveFile(path string) error {
	return os.Remove(d.makeGeneralFilePath(path))
}

func (d *FileDiskManager) ShutDown() error {
	return nil
}
