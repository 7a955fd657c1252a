// Package storage abstracts where product photo bytes live. A Disk is a
// flat blob store addressed by slash paths; the app picks one per call
// (storage.Use) or leans on the default from STORAGE_DISK.
//
// Shipped drivers:
//
//	"local" — files under STORAGE_ROOT (the default)
//	"s3"    — any S3-compatible endpoint: AWS, MinIO, R2, Spaces
//
// Boot once with storage.Connect(), then:
//
//	storage.Put("products/abc.jpg", data)
//	storage.Use("s3").Put("products/abc.jpg", data)
package storage

// Disk is one blob backend.
type Disk interface {
	// Put writes content at path, creating parents as needed.
	Put(path string, content []byte) error
	// Get reads the whole blob at path.
	Get(path string) ([]byte, error)
	// Exists reports whether path holds a blob.
	Exists(path string) bool
	// Size returns the blob's length in bytes.
	Size(path string) (int64, error)
	// URL returns a public URL for path.
	URL(path string) string
	// Delete removes path; deleting a missing blob is not an error.
	Delete(path string) error
}
