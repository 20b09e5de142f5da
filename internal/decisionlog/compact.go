package decisionlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/mwynn/toolgate/internal/constants"
	"github.com/mwynn/toolgate/internal/logger"
)

// DefaultDir returns the directory holding the decision logs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName), nil
}

// Compact gzips rotated decision log segments in dir and removes the
// originals. The active `<gate>.log` files are left alone; only rotated
// segments (`<gate>.log.<suffix>`, written by an external rotator) are
// compacted. Returns the paths of the compressed archives.
func Compact(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var compacted []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".gz") || !strings.Contains(name, ".log.") {
			continue
		}
		src := filepath.Join(dir, name)
		dst := src + ".gz"
		if err := gzipFile(src, dst); err != nil {
			return compacted, fmt.Errorf("compact %s: %w", name, err)
		}
		if err := os.Remove(src); err != nil {
			return compacted, fmt.Errorf("remove %s after compaction: %w", name, err)
		}
		logger.Debug("compacted decision log segment", "src", src, "dst", dst)
		compacted = append(compacted, dst)
	}
	return compacted, nil
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
