// Package files walks the materialized tree, validates every entry, and
// builds the uploadKey -> sourcePath mapping for the upload batch.
package files

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Andres9890/iagitbetter/internal/domain/entities"
)

const probeSize = 512

// The storage service's format deriver rejects these two image types; their
// keys get an inert .txt suffix so the original extension stays visible.
const (
	vectorImageExt = ".svg"
	bitmapImageExt = ".bmp"
	inertSuffix    = ".txt"
)

// Result is the outcome of one collection pass.
type Result struct {
	Files   map[string]string // upload key -> absolute source path
	Renames map[string]string // original key -> remapped key
	Skipped entities.SkipSummary
}

// Collect walks root once, excluding version-control internals, validating
// each file and remapping disallowed extensions. Rejected files are counted
// per reason; nothing is fatal.
func Collect(root string) (*Result, error) {
	result := &Result{
		Files:   map[string]string{},
		Renames: map[string]string{},
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		entry := Validate(path, filepath.ToSlash(rel))
		switch entry.Status {
		case entities.FileValid:
			if entry.Renamed() {
				result.Renames[entry.OriginalKey] = entry.UploadKey
			}
			result.Files[entry.UploadKey] = path
		case entities.FileEmpty:
			result.Skipped.Empty++
			logger.Debugf("Skipping empty file %s", rel)
		case entities.FileCorrupted:
			result.Skipped.Corrupted++
			logger.Warnf("Skipping corrupted file %s: %s", rel, entry.Reason)
		case entities.FileUnreadable:
			result.Skipped.Unreadable++
			logger.Warnf("Skipping unreadable file %s: %s", rel, entry.Reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Validate classifies a single file and computes its upload key. Checks run
// in order: existence, broken symlink target, zero size, partial read.
func Validate(path, key string) entities.FileEntry {
	entry := entities.FileEntry{SourcePath: path, UploadKey: key}

	info, err := os.Lstat(path)
	if err != nil {
		entry.Status = entities.FileCorrupted
		entry.Reason = "file does not exist"
		return entry
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if _, statErr := os.Stat(path); statErr != nil {
			entry.Status = entities.FileCorrupted
			entry.Reason = "broken symbolic link"
			return entry
		}
		info, err = os.Stat(path)
		if err != nil {
			entry.Status = entities.FileCorrupted
			entry.Reason = "broken symbolic link"
			return entry
		}
	}

	if info.Size() == 0 {
		entry.Status = entities.FileEmpty
		return entry
	}

	if readErr := probeRead(path); readErr != nil {
		entry.Status = entities.FileUnreadable
		entry.Reason = readErr.Error()
		return entry
	}

	entry.Status = entities.FileValid
	if remapped, renamed := RemapKey(key); renamed {
		entry.OriginalKey = key
		entry.UploadKey = remapped
	}
	return entry
}

// probeRead reads the head of the file to surface I/O and permission
// failures before the upload stage does.
func probeRead(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, probeSize)
	if _, readErr := f.Read(buf); readErr != nil && readErr != io.EOF {
		return readErr
	}
	return nil
}

// RemapKey appends the inert suffix to keys ending in a disallowed image
// extension. No other keys are altered.
func RemapKey(key string) (string, bool) {
	lower := strings.ToLower(key)
	if strings.HasSuffix(lower, vectorImageExt) || strings.HasSuffix(lower, bitmapImageExt) {
		return key + inertSuffix, true
	}
	return key, false
}
