package headless

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot encodes the current canvas as a PNG at path, creating parent
// directories as needed.
func (r *Renderer) Snapshot(path string) (err error) {
	if r.canvas == nil {
		return fmt.Errorf("snapshot %s: no canvas", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("snapshot %s: %w", path, cerr)
		}
	}()
	if err := png.Encode(f, r.canvas.Image); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return nil
}

// SnapshotFrame writes the canvas into the configured snapshot directory,
// named after the current canvas frame and label, and returns the path.
func (r *Renderer) SnapshotFrame(label string) (string, error) {
	var frame uint64
	if r.canvas != nil {
		frame = r.canvas.Frame()
	}
	path := frameFileName(r.cfg.SnapshotDir, frame, label)
	return path, r.Snapshot(path)
}

// frameFileName returns dir/<frame:06d>_<label>.png. Label characters other
// than ASCII letters, digits, '-' and '.' become '_'; a blank label is
// "unlabeled".
func frameFileName(dir string, frame uint64, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "unlabeled"
	}
	label = strings.Map(func(c rune) rune {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '.' {
			return c
		}
		return '_'
	}, label)
	return filepath.Join(dir, fmt.Sprintf("%06d_%s.png", frame, label))
}
