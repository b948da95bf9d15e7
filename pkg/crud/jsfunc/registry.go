package jsfunc

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/saracen/walker"
)

const jsExt = ".js"

// Registry maps short names to javascript files on disk.
type Registry struct {
	mu    sync.RWMutex
	paths map[string]string
}

func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]string)}
}

func (r *Registry) RegisterFile(name, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[name] = path
}

// RegisterFilesFromDir registers every .js file below dir. Files in sub
// directories get a dot separated name, so forms/user.js is registered as
// "forms.user". A depth greater than 0 limits how many directories deep
// files are picked up (1 = only files directly in dir).
func (r *Registry) RegisterFilesFromDir(dir string, depth int) error {
	return walker.Walk(dir, func(pathname string, fi os.FileInfo) error {
		if fi.IsDir() || filepath.Ext(pathname) != jsExt {
			return nil
		}

		rel, err := filepath.Rel(dir, pathname)
		if err != nil {
			return err
		}

		parts := strings.Split(filepath.ToSlash(rel), "/")
		if depth > 0 && len(parts) > depth {
			return nil
		}

		parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], jsExt)
		r.RegisterFile(strings.Join(parts, "."), pathname)
		return nil
	})
}

// Lookup returns the path registered under name.
func (r *Registry) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.paths[name]
	return path, ok
}

// File loads a function from a registered name or a path to a .js file.
func (r *Registry) File(nameOrPath string) (*Func, error) {
	path, ok := r.Lookup(nameOrPath)
	if !ok {
		path = nameOrPath
	}

	if filepath.Ext(path) != jsExt {
		return nil, errors.Errorf("not a javascript file: %s", path)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(string(contents))
}

var defaultRegistry = NewRegistry()

func RegisterFile(name, path string) {
	defaultRegistry.RegisterFile(name, path)
}

func RegisterFilesFromDir(dir string, depth int) error {
	return defaultRegistry.RegisterFilesFromDir(dir, depth)
}

func File(nameOrPath string) (*Func, error) {
	return defaultRegistry.File(nameOrPath)
}
