package sssp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
)

// buildInlinePayload assembles the raw bytes for a SCANDATA request from
// the path a verb would otherwise reference: the whole file for SCANFILE,
// or the concatenated contents of a directory's files for SCANDIR and
// SCANDIRR. Pure given its inputs; the caller decides whether inline mode
// applies.
func buildInlinePayload(verb, path string) ([]byte, error) {
	switch verb {
	case verbScanFile:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("failed to read file: %s", path), err)
		}
		return data, nil
	case verbScanDir:
		return readDirData(path, false)
	case verbScanDirR:
		return readDirData(path, true)
	default:
		return nil, NewValidationError(fmt.Sprintf("unsupported scan verb: %s", verb), nil)
	}
}

// readDirData concatenates the contents of every regular file in dir, in
// sorted name order. With recurse set, each immediate subdirectory is
// consumed in full, depth first, before the directory's own files.
// Symlinked directories are not followed; symlink loops elsewhere in the
// tree are not guarded against.
func readDirData(dir string, recurse bool) ([]byte, error) {
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("failed to read directory: %s", dir), err)
	}
	sort.Sort(dirents)

	var buf []byte

	if recurse {
		for _, de := range dirents {
			if !de.IsDir() {
				continue
			}
			sub, err := readDirData(filepath.Join(dir, de.Name()), true)
			if err != nil {
				return nil, err
			}
			buf = append(buf, sub...)
		}
	}

	for _, de := range dirents {
		if !de.IsRegular() {
			continue
		}
		name := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("failed to read file: %s", name), err)
		}
		buf = append(buf, data...)
	}

	return buf, nil
}
