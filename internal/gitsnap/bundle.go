package gitsnap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
)

// Bundle writes a single-file export of all refs and tags next to the
// working copy and returns its path. go-git has no bundle writer, so this
// shells out to the git CLI.
func (s *Snapshot) Bundle(ctx context.Context, owner, name string) (string, error) {
	bundleName := fmt.Sprintf("%s-%s.bundle", owner, name)
	bundlePath := filepath.Join(s.Path, bundleName)

	cmd := exec.CommandContext(ctx, "git", "bundle", "create", bundlePath, "--all")
	cmd.Dir = s.Path
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git bundle create: %w: %s", err, output)
	}

	logger.Infof("Bundle created: %s", bundleName)
	return bundlePath, nil
}

// Cleanup removes the temporary workspace. Object files under .git are
// read-only on some platforms, so everything is made writable first.
func Cleanup(dir string) {
	if dir == "" {
		return
	}
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.Mode().Perm()&0o200 == 0 {
			_ = os.Chmod(path, info.Mode().Perm()|0o200)
		}
		return nil
	})
	if err := os.RemoveAll(dir); err != nil {
		logger.Warnf("Could not clean up %s: %v", dir, err)
	}
}
