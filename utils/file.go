package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CopyFileWithTimestamp archives a file into dir under a timestamped name
// so repeated runs against the same PDF never overwrite earlier copies.
// Returns the archived path.
func CopyFileWithTimestamp(sourcePath, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", sourcePath, err)
	}
	defer source.Close()

	name := filepath.Base(sourcePath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	destPath := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, time.Now().Unix(), ext))

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", sourcePath, err)
	}
	return destPath, nil
}
