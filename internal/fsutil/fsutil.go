// Package fsutil holds the filesystem primitives used to project skills:
// existence checks that do not follow links, link creation and
// resolution, and recursive copies that land atomically.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauern/skillhub/internal/logging"
)

// Exists reports whether anything, including a dangling symlink, is
// present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is itself a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// TargetExists reports whether path resolves to something, following links.
func TargetExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveExisting removes a file, symlink, or directory at path without
// following links. A missing path is not an error.
func RemoveExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove directory %q: %w", path, err)
		}
		logging.Debug("removed existing directory", logging.Path(path))
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		logging.Debug("removed existing symlink", logging.Path(path))
	} else {
		logging.Debug("removed existing file", logging.Path(path))
	}
	return nil
}

// Link creates a symbolic link at link pointing to target. The link's
// parent directory is created if needed.
func Link(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0o750); err != nil {
		return fmt.Errorf("failed to create parent of %q: %w", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("failed to link %q -> %q: %w", link, target, err)
	}
	return nil
}

// ReadLink returns the raw stored value of the link at path.
func ReadLink(path string) (string, error) {
	dest, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("failed to read link %q: %w", path, err)
	}
	return dest, nil
}

// ResolveLink returns the cleaned destination of the link at path. A
// relative stored value is resolved against the link's parent directory.
func ResolveLink(path string) (string, error) {
	dest, err := ReadLink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return filepath.Clean(dest), nil
}

// CopyDir recursively copies src into dst, creating dst. Symbolic links
// inside src are dereferenced so dst holds plain files and directories.
func CopyDir(src, dst string) error {
	return copyDir(src, dst, make(map[string]bool))
}

// CopyDirStaged copies src into a hidden sibling of dst and renames it into
// place, so dst is either absent or complete. dst must not exist.
func CopyDirStaged(src, dst string) error {
	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return fmt.Errorf("failed to create parent of %q: %w", dst, err)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(dst)+".staging-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory for %q: %w", dst, err)
	}
	if err := CopyDir(src, staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	if err := os.Rename(staging, dst); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("failed to move staged copy into %q: %w", dst, err)
	}

	logging.Debug("copied directory", logging.Path(src), logging.Target(dst))
	return nil
}

func copyDir(src, dst string, visiting map[string]bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %q: %w", src, err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}

	real, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", src, err)
	}
	if visiting[real] {
		return fmt.Errorf("symlink cycle at %q", src)
	}
	visiting[real] = true
	defer delete(visiting, real)

	if err := os.MkdirAll(dst, 0o750); err != nil {
		return fmt.Errorf("failed to create destination directory %q: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory %q: %w", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat follows links, so a linked directory is copied as a directory.
		info, err := os.Stat(srcPath)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", srcPath, err)
		}
		if info.IsDir() {
			if err := copyDir(srcPath, dstPath, visiting); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			logging.Debug("skipping special file", logging.Path(srcPath))
			continue
		}
		if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
			return err
		}
	}

	// The source mode is applied once the children are in place. The owner
	// keeps full access so the copy can later be replaced or removed.
	// #nosec G302 - preserving source permissions
	if err := os.Chmod(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("failed to set mode on %q: %w", dst, err)
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is from trusted skill paths
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	// #nosec G302 G304 - preserving source permissions, dst is from trusted paths
	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy content to %q: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", dst, err)
	}
	return nil
}

// SkillDirs lists the entries of dir that are directories or symlinks to
// directories, sorted and skipping dot-prefixed names. A missing dir
// yields no entries.
func SkillDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %q: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			names = append(names, name)
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
