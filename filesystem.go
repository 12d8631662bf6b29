package applescene

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/google/renameio/v2"
)

// FileSystem is the slice of file access the editor needs. Paths are
// native paths.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Remove(path string) error
	Exists(path string) bool
	MkdirAll(path string) error
	// ReadDir lists the plain file names in dir, sorted.
	ReadDir(dir string) ([]string, error)
}

// OSFileSystem writes through renameio so an entity file is either the old
// or the new content, never a torn write.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644)
}

func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (OSFileSystem) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
