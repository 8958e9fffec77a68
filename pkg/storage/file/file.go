// Package file stores documents as plain files on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pario-ai/stash/pkg/storage"
)

// Provider implements storage.Provider on top of os files.
type Provider struct {
	// Root, if set, is joined in front of relative paths.
	Root string
}

var _ storage.Provider = (*Provider)(nil)

// New creates a Provider rooted at root. An empty root resolves paths
// against the working directory.
func New(root string) *Provider {
	return &Provider{Root: root}
}

func (p *Provider) resolve(path string) string {
	if p.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// Read returns the file contents.
func (p *Provider) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write truncates and rewrites the file, creating parent directories.
func (p *Provider) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := p.resolve(path)
	if dir := filepath.Dir(full); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
