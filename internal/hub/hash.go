package hub

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// hashExcludes lists paths that never contribute to a content hash.
var hashExcludes = []string{
	".git/**",
	"**/.DS_Store",
	"**/Thumbs.db",
}

// ComputeHash returns the hex SHA-256 of every regular file's bytes under
// dir, fed in sorted relative-path order. Symlinked files are followed, and
// so is dir itself when it is a link.
func ComputeHash(dir string) (string, error) {
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	files, err := hashFiles(root)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, rel := range files {
		if err := hashFile(h, filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func excluded(rel string) bool {
	for _, pattern := range hashExcludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	// A directory itself matches "<dir>/**" only via its children.
	if rel == ".git" {
		return true
	}
	return false
}

func hashFile(w io.Writer, path string) error {
	// #nosec G304 - path is inside a hub skill directory
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %q for hashing: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read %q for hashing: %w", path, err)
	}
	return nil
}
