// Package fs implements the blob store on the local filesystem. A sidecar
// file (name + ".meta") records the content type.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imago-sys/occurrence-backend/internal/blob/core"
)

// Store is a filesystem-backed blob store rooted at a single directory.
type Store struct {
	root string
}

// New returns a store rooted at path, creating the directory if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./data/documents"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob fs: create root: %w", err)
	}
	return &Store{root: root}, nil
}

type metaFile struct {
	ContentType string `json:"content_type,omitempty"`
}

// sanitizeName rejects names that would escape the root directory.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("blob fs: empty name")
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("blob fs: invalid name %q", name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("blob fs: invalid name %q", name)
	}
	return clean, nil
}

func (s *Store) paths(name string) (dataPath, metaPath string, err error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, clean)
	metaPath = dataPath + ".meta"
	return dataPath, metaPath, nil
}

func (s *Store) Put(_ context.Context, name string, content []byte, contentType string) error {
	dataPath, metaPath, err := s.paths(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("blob fs: mkdir: %w", err)
	}
	if err := os.WriteFile(dataPath, content, 0o644); err != nil {
		return fmt.Errorf("blob fs: write %s: %w", name, err)
	}

	meta, err := json.Marshal(metaFile{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("blob fs: marshal meta: %w", err)
	}
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("blob fs: write meta %s: %w", name, err)
	}
	return nil
}

func (s *Store) Get(_ context.Context, name string) (core.Object, error) {
	dataPath, metaPath, err := s.paths(name)
	if err != nil {
		return core.Object{}, err
	}

	content, err := os.ReadFile(dataPath)
	if os.IsNotExist(err) {
		return core.Object{}, fmt.Errorf("%s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Object{}, fmt.Errorf("blob fs: read %s: %w", name, err)
	}

	obj := core.Object{Content: content}
	if raw, err := os.ReadFile(metaPath); err == nil {
		var meta metaFile
		if json.Unmarshal(raw, &meta) == nil {
			obj.ContentType = meta.ContentType
		}
	}
	return obj, nil
}

func (s *Store) Exists(_ context.Context, name string) (bool, error) {
	dataPath, _, err := s.paths(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("blob fs: stat %s: %w", name, err)
	}
	return true, nil
}
