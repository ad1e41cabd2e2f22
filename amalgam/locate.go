package amalgam

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
)

const (
	includeDirName = "include"
	srcDirName     = "src"
	headerExt      = ".h"
	sourceExt      = ".c"
)

// Layout is the pair of directories a project is made of.
type Layout struct {
	Root       string // absolute
	IncludeDir string
	SrcDir     string
}

// NewLayout resolves root to an absolute path and derives its include/ and
// src/ directories. It does not check that they exist.
func NewLayout(root string) (Layout, error) {
	if strings.TrimSpace(root) == "" {
		return Layout{}, &Error{Kind: ErrInvalidArgument, Msg: "project directory path must not be empty"}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to resolve project directory %s: %w", root, err)
	}
	return Layout{
		Root:       abs,
		IncludeDir: filepath.Join(abs, includeDirName),
		SrcDir:     filepath.Join(abs, srcDirName),
	}, nil
}

// FindHeaders returns the .h files under the include directory, recursively,
// in lexical walk order.
func FindHeaders(l Layout) ([]string, error) {
	return findFiles("include", l.IncludeDir, headerExt)
}

// FindSources returns the .c files under the src directory, recursively, in
// lexical walk order.
func FindSources(l Layout) ([]string, error) {
	return findFiles("src", l.SrcDir, sourceExt)
}

func findFiles(kind, dir, ext string) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, directoryNotFound(kind, dir)
		}
		return nil, fmt.Errorf("failed to stat %s directory %s: %w", kind, dir, err)
	}
	if !fi.IsDir() {
		return nil, directoryNotFound(kind, dir)
	}
	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s directory %s: %w", kind, dir, err)
	}
	if len(files) == 0 {
		log.Warnf("No %s files found under %s", ext, dir)
	}
	log.LogVf("Found %d %s files under %s", len(files), ext, dir)
	return files, nil
}
