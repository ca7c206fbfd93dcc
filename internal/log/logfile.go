package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OpenLogFile creates a log file for one command run inside dir,
// creating the directory first if needed. The file name carries the
// command and a timestamp so consecutive runs never clobber each
// other's logs.
func OpenLogFile(dir, command string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.log", command, time.Now().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(dir, name)) //nolint:gosec // user-provided log directory is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return f, nil
}
