package reporter

import (
	"os"
	"path/filepath"
	"strings"
)

// saveAtomic lets save write a temp file next to dst, keeping dst's
// extension, and renames it into place once save succeeds.
func saveAtomic(dst string, save func(tmp string) error) error {
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(filepath.Base(dst), ext)

	f, err := os.CreateTemp(filepath.Dir(dst), stem+".*"+ext)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	if err := f.Close(); err != nil {
		return err
	}

	if err := save(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
