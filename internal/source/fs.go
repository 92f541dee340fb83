package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirProvider reads Python files from a local directory tree.
type DirProvider struct {
	ignore []string
}

// NewDir creates a provider that skips paths matching the given
// ignore globs.
func NewDir(ignore []string) *DirProvider {
	return &DirProvider{ignore: ignore}
}

// Name returns "dir".
func (p *DirProvider) Name() string {
	return "dir"
}

// Fetch walks target and returns every .py file beneath it, with
// paths relative to target. A target that is itself a .py file is
// returned as a single-file list.
func (p *DirProvider) Fetch(ctx context.Context, target string) ([]File, error) {
	root, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(root, ".py") {
			return nil, fmt.Errorf("%s is not a Python file", target)
		}
		data, err := os.ReadFile(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", target, err)
		}
		return []File{{Path: filepath.Base(root), Content: string(data)}}, nil
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if p.isIgnored(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, ".py") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", relPath, err)
		}
		files = append(files, File{Path: filepath.ToSlash(relPath), Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", target, err)
	}
	return files, nil
}

// isIgnored checks whether a path matches any ignore pattern.
func (p *DirProvider) isIgnored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range p.ignore {
		if matchIgnore(pattern, relPath) {
			return true
		}
	}
	return false
}

func matchIgnore(pattern, relPath string) bool {
	// dir/** and **/dir/** patterns match whole subtrees.
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		if name, ok := strings.CutPrefix(prefix, "**/"); ok {
			if relPath == name ||
				strings.HasPrefix(relPath, name+"/") ||
				strings.HasSuffix(relPath, "/"+name) ||
				strings.Contains(relPath, "/"+name+"/") {
				return true
			}
		} else if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
		return true
	}

	// Patterns like **/*.pyc match against the basename and the full
	// relative path.
	if sub, ok := strings.CutPrefix(pattern, "**/"); ok {
		if matched, err := filepath.Match(sub, filepath.Base(relPath)); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(sub, relPath); err == nil && matched {
			return true
		}
	}
	return false
}
