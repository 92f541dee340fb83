// Package source fetches the Python files to review, from a local
// directory or from GitHub. Providers return plain file lists; they
// never analyze anything.
package source

import "context"

// File is one fetched source file. Path is target-relative with
// forward slashes.
type File struct {
	Path    string
	Content string
}

// Provider fetches the reviewable files for a target.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Fetch returns every Python file under the target.
	Fetch(ctx context.Context, target string) ([]File, error)
}
