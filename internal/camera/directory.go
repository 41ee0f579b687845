package camera

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
)

// Directory serves the image files of a directory in name order, one per call,
// wrapping around at the end. Used to replay recorded sessions.
type Directory struct {
	mu    sync.Mutex
	files []string
	next  int
}

// NewDirectory lists the jpg, png and bmp files in dir.
func NewDirectory(dir string) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading frame directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".bmp":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no frames found in %s", dir)
	}
	return &Directory{files: files}, nil
}

// Len returns the number of frames.
func (d *Directory) Len() int {
	return len(d.files)
}

// Frame decodes the next file.
func (d *Directory) Frame(_ context.Context) (image.Image, error) {
	d.mu.Lock()
	path := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	f, err := os.Open(path) //nolint:gosec // path comes from the listed directory
	if err != nil {
		return nil, fmt.Errorf("opening frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
