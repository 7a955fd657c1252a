package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rishavanand/bazario/config"
)

// localDisk stores blobs as plain files under a root directory.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk() *localDisk {
	root := config.StorageRoot()
	if !filepath.IsAbs(root) {
		if cwd, err := os.Getwd(); err == nil {
			root = filepath.Join(cwd, root)
		}
	}
	return &localDisk{
		root:    root,
		baseURL: strings.TrimRight(config.StorageURL(), "/"),
	}
}

// resolve maps a slash path onto the disk root.
func (d *localDisk) resolve(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *localDisk) Put(path string, content []byte) error {
	dst := d.resolve(path)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Get(path string) ([]byte, error) {
	b, err := os.ReadFile(d.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("storage/local: read %s: %w", path, err)
	}
	return b, nil
}

func (d *localDisk) Exists(path string) bool {
	_, err := os.Stat(d.resolve(path))
	return err == nil
}

func (d *localDisk) Size(path string) (int64, error) {
	fi, err := os.Stat(d.resolve(path))
	if err != nil {
		return 0, fmt.Errorf("storage/local: stat %s: %w", path, err)
	}
	return fi.Size(), nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (d *localDisk) Delete(path string) error {
	if err := os.Remove(d.resolve(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: remove %s: %w", path, err)
	}
	return nil
}
