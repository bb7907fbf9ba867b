package testutils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateImage writes a solid w x h image to path. PNG and JPEG extensions
// produce decodable files; anything else gets placeholder bytes.
func CreateImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		require.NoError(t, imgio.Save(path, img, imgio.PNGEncoder()))
	case ".jpg", ".jpeg":
		require.NoError(t, imgio.Save(path, img, imgio.JPEGEncoder(90)))
	default:
		require.NoError(t, os.WriteFile(path, []byte("not really an image"), 0644))
	}
}

// CreateImageFolder writes a small image for every name under dir and
// returns their full paths in the order given.
func CreateImageFolder(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		CreateImage(t, p, 4, 3)
		paths = append(paths, p)
	}
	return paths
}

// WriteSidecar writes raw sidecar content next to imagePath
func WriteSidecar(t *testing.T, imagePath, content string) string {
	t.Helper()
	p := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// ReadSidecar returns the raw sidecar content for imagePath, or "" if absent
func ReadSidecar(t *testing.T, imagePath string) string {
	t.Helper()
	p := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
