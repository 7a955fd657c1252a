package storage

import (
	"fmt"
	"sync"

	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/logger"
)

// manager tracks the configured disks and which one is the default.
type manager struct {
	mu     sync.RWMutex
	disks  map[string]Disk
	defKey string
}

var std = &manager{disks: map[string]Disk{}}

// Connect boots the disks. The local disk always exists; the s3 disk is
// added only when S3_BUCKET is set. Call once at startup.
func Connect() {
	std.mu.Lock()
	defer std.mu.Unlock()

	std.defKey = config.Get("STORAGE_DISK", "local")
	std.disks["local"] = newLocalDisk()

	if config.S3Bucket() == "" {
		return
	}
	s3d, err := newS3Disk()
	if err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
		return
	}
	std.disks["s3"] = s3d
}

// Use returns the named disk, panicking on an unknown name. Disk names
// come from config, so a bad one is a deployment mistake worth failing
// loudly on.
func Use(name string) Disk {
	std.mu.RLock()
	defer std.mu.RUnlock()
	d, ok := std.disks[name]
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Has reports whether a disk with this name was configured.
func Has(name string) bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	_, ok := std.disks[name]
	return ok
}

// RegisterDisk installs a custom Disk under name. Tests use it to mount an
// in-memory disk.
func RegisterDisk(name string, d Disk) {
	std.mu.Lock()
	std.disks[name] = d
	std.mu.Unlock()
}

func def() Disk {
	std.mu.RLock()
	key := std.defKey
	std.mu.RUnlock()
	return Use(key)
}

// The package-level helpers act on the default disk.

func Put(path string, content []byte) error { return def().Put(path, content) }
func Get(path string) ([]byte, error)       { return def().Get(path) }
func Exists(path string) bool               { return def().Exists(path) }
func Delete(path string) error              { return def().Delete(path) }
func URL(path string) string                { return def().URL(path) }
func Size(path string) (int64, error)       { return def().Size(path) }
