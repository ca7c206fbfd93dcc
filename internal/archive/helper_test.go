package archive

import "os"

// writeFile is a test helper that writes raw bytes to path.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0600)
}
