package site

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// defaultTemplate is the site template used when no template directory is
// configured.
//
//go:embed all:template
var defaultTemplate embed.FS

// DefaultTemplate returns the embedded site template rooted at its top
// directory.
func DefaultTemplate() fs.FS {
	sub, err := fs.Sub(defaultTemplate, "template")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "template" is valid.
		panic(err)
	}
	return sub
}

// TemplateFS returns the template to copy new sites from: the directory dir
// when set, the embedded default otherwise.
func TemplateFS(dir string) fs.FS {
	if dir == "" {
		return DefaultTemplate()
	}
	return os.DirFS(dir)
}

// copyTree copies every regular file and directory of src into dstDir.
//
// Symbolic links are skipped. Permission bits are carried over with the owner
// read and write bits added, so files from read-only sources (such as the
// embedded template) stay editable.
func copyTree(src fs.FS, dstDir string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking template at %s: %w", path, model.ClassifyFSError(walkErr))
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat template entry %s: %w", path, err)
		}
		dstPath := filepath.Join(dstDir, filepath.FromSlash(path))

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, info.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, model.ClassifyFSError(err))
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(src, path, dstPath, info.Mode().Perm()|0o600)
	})
}

// copyFile streams one file from src to dst, creating dst with mode.
func copyFile(src fs.FS, name, dst string, mode os.FileMode) error {
	srcFile, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open template file %s: %w", name, model.ClassifyFSError(err))
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", dst, model.ClassifyFSError(err))
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", name, dst, err)
	}
	return dstFile.Close()
}
