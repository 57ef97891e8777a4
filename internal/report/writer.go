package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"CryptoAllocator/internal/model"
)

// Encode writes the plan's positions to w as a JSON array.
func Encode(w io.Writer, plan *model.AllocationPlan) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(Positions(plan))
}

// WriteFile writes the plan's positions to filePath. The file is replaced atomically and parent
// directories are created as needed.
func WriteFile(filePath string, plan *model.AllocationPlan) error {
	var buf bytes.Buffer
	if err := Encode(&buf, plan); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close plan: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod plan: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}
