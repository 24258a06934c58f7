// Package faults provides the explanation texts printed for each fault id.
package faults

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var ErrNotFound = errors.New("fault text not found")

//go:embed texts/*.md
var embedded embed.FS

// Source resolves a fault id to its markdown text.
type Source interface {
	Text(id string) (string, error)
}

type fsSource struct {
	name string
	fsys fs.FS
}

// Embedded returns the texts compiled into the binary.
func Embedded() Source {
	sub, err := fs.Sub(embedded, "texts")
	if err != nil {
		panic(err)
	}
	return &fsSource{name: "embedded", fsys: sub}
}

// Dir reads <path>/<id>.md for each fault.
func Dir(path string) (Source, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	return &fsSource{name: path, fsys: os.DirFS(path)}, nil
}

func (s *fsSource) Text(id string) (string, error) {
	name := id + ".md"
	if id == "" || strings.ContainsAny(id, `/\`) || !fs.ValidPath(name) {
		return "", fmt.Errorf("%s: invalid fault id %q: %w", s.name, id, ErrNotFound)
	}
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %s: %w", s.name, id, ErrNotFound)
		}
		return "", err
	}
	return string(b), nil
}

// Map is an in memory source, mostly useful for overrides and tests.
type Map map[string]string

func (m Map) Text(id string) (string, error) {
	s, ok := m[id]
	if !ok {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s, nil
}

// Fallback tries each source in order and returns the first text found.
func Fallback(sources ...Source) Source {
	return fallback(sources)
}

type fallback []Source

func (f fallback) Text(id string) (string, error) {
	for _, s := range f {
		txt, err := s.Text(id)
		if err == nil {
			return txt, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w", id, ErrNotFound)
}
