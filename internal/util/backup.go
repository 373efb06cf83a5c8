package util

import (
	"fmt"
	"os"
	"time"
)

// BackupFile copies path to a sibling named path.<timestamp>.backup and
// returns the backup path. Used before rewriting files in place.
func BackupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for backup: %w", path, err)
	}
	backup := fmt.Sprintf("%s.%s.backup", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", backup, err)
	}
	return backup, nil
}
