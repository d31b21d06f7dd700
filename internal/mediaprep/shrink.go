package mediaprep

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// Shrinker re-encodes oversized still images as WebP before upload.
type Shrinker struct {
	MaxBytes int64 // <= 0 disables re-encoding
	Quality  int   // 1..100, default 85
	// MaxDimension caps the longest side of a re-encoded image; 0 keeps the size.
	MaxDimension int
	TempDir      string
}

// Prepare returns the path to upload and a cleanup func that must be called
// once the upload finished. Files that need no work pass through unchanged.
func (s *Shrinker) Prepare(path string) (string, func(), error) {
	noop := func() {}
	if s == nil || s.MaxBytes <= 0 || !reencodable(path) {
		return path, noop, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", noop, fmt.Errorf("stat media: %w", err)
	}
	if fi.Size() <= s.MaxBytes {
		return path, noop, nil
	}

	start := time.Now()
	src, err := os.Open(path)
	if err != nil {
		return "", noop, fmt.Errorf("open media: %w", err)
	}
	img, _, err := image.Decode(src)
	src.Close()
	if err != nil {
		return "", noop, fmt.Errorf("decode image: %w", err)
	}

	img = s.fit(img)

	out, err := os.CreateTemp(s.TempDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*.webp")
	if err != nil {
		return "", noop, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(out.Name()) }
	if err := webp.Encode(out, img, &webp.Options{Quality: float32(s.quality())}); err != nil {
		out.Close()
		cleanup()
		return "", noop, fmt.Errorf("encode webp: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("close webp: %w", err)
	}
	if nfi, err := os.Stat(out.Name()); err == nil {
		slog.Info("mediaprep: re-encoded image",
			"path", path,
			"from_bytes", fi.Size(),
			"to_bytes", nfi.Size(),
			"duration", time.Since(start),
		)
		if nfi.Size() > s.MaxBytes {
			slog.Warn("mediaprep: re-encoded image still above limit", "path", path, "bytes", nfi.Size())
		}
	}
	return out.Name(), cleanup, nil
}

// fit scales img down so its longest side is at most MaxDimension.
func (s *Shrinker) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if s.MaxDimension <= 0 || longest <= s.MaxDimension {
		return img
	}
	nw := max(1, w*s.MaxDimension/longest)
	nh := max(1, h*s.MaxDimension/longest)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func (s *Shrinker) quality() int {
	if s.Quality <= 0 || s.Quality > 100 {
		return 85
	}
	return s.Quality
}

func reencodable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// IsImage reports whether the path looks like a still image the instance accepts.
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
