package imagefile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes encodes a w x h gradient PNG
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidator_LoadAcceptsImage(t *testing.T) {
	path := writeFile(t, "tomato.png", pngBytes(t, 64, 48))

	img, err := NewValidator(0).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tomato.png", img.Name)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, int64(len(img.Data)), img.Size)
	require.NotNil(t, img.Preview)
	assert.Equal(t, 64, img.Preview.Width)
	assert.Equal(t, 48, img.Preview.Height)
	assert.Equal(t, "png", img.Preview.Format)
	assert.True(t, img.Preview.Decoded())
}

func TestValidator_RejectsNonImage(t *testing.T) {
	// The extension lies; the content decides.
	path := writeFile(t, "notes.jpg", []byte("shopping list: tomatoes, salt\n"))

	img, err := NewValidator(0).Load(path)
	assert.Nil(t, img)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotImage))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please upload a valid image file (JPG, PNG).", verr.Message)
	assert.Equal(t, path, verr.Path)
}

func TestValidator_RejectsOversizedImage(t *testing.T) {
	data := pngBytes(t, 4, 4)
	padded := append(data, make([]byte, DefaultMaxSize)...)
	path := writeFile(t, "huge.png", padded)

	img, err := NewValidator(0).Load(path)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrTooLarge)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "File is too large. Please upload an image under 5MB.", verr.Message)
}

func TestValidator_Check(t *testing.T) {
	v := NewValidator(0)

	tests := []struct {
		name    string
		mime    string
		size    int64
		wantErr error
	}{
		{name: "jpeg at limit", mime: "image/jpeg", size: DefaultMaxSize},
		{name: "jpeg over limit", mime: "image/jpeg", size: DefaultMaxSize + 1, wantErr: ErrTooLarge},
		{name: "pdf small", mime: "application/pdf", size: 10, wantErr: ErrNotImage},
		{name: "pdf huge", mime: "application/pdf", size: DefaultMaxSize * 2, wantErr: ErrNotImage},
		{name: "empty type", mime: "", size: 10, wantErr: ErrNotImage},
		{name: "3 MB jpeg", mime: "image/jpeg", size: 3 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.mime, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidator_CustomLimitMessage(t *testing.T) {
	err := NewValidator(512*1024).Check("image/png", 600*1024)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "File is too large. Please upload an image under 512KB.", verr.Message)
}

func TestValidator_LoadErrors(t *testing.T) {
	v := NewValidator(0)

	_, err := v.Load("")
	assert.Error(t, err)

	_, err = v.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = v.Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidator_LoadBytes(t *testing.T) {
	img, err := NewValidator(0).LoadBytes("", pngBytes(t, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, "upload.png", img.Name)

	_, err = NewValidator(0).LoadBytes("x.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestValidator_ReadRechecksSize(t *testing.T) {
	v := NewValidator(64)

	// a camera-inbox file that was small at stat time and kept growing
	grown := append(pngBytes(t, 2, 2), make([]byte, 128)...)
	_, err := v.readChecked("inbox/a.png", "image/png", bytes.NewReader(grown))
	require.ErrorIs(t, err, ErrTooLarge)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "inbox/a.png", verr.Path)

	data, err := v.readChecked("inbox/b.png", "image/png", bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Len(t, data, 64)
}

func TestValidator_LoadReader(t *testing.T) {
	img, err := NewValidator(0).LoadReader("stdin.png", bytes.NewReader(pngBytes(t, 4, 4)))
	require.NoError(t, err)
	assert.Equal(t, "stdin.png", img.Name)
	assert.Equal(t, "image/png", img.MIMEType)

	oversized := append(pngBytes(t, 2, 2), make([]byte, 256)...)
	_, err = NewValidator(128).LoadReader("", bytes.NewReader(oversized))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPreview_ThumbnailBounds(t *testing.T) {
	preview := NewPreview(pngBytes(t, 200, 50))
	require.True(t, preview.Decoded())

	assert.LessOrEqual(t, len(preview.Pixels), ThumbnailMaxHeight)
	assert.Len(t, preview.Pixels[0], ThumbnailMaxWidth)
	assert.Equal(t, 8, len(preview.Pixels))

	small := NewPreview(pngBytes(t, 3, 2))
	assert.Len(t, small.Pixels, 2)
	assert.Len(t, small.Pixels[0], 3)
}

func TestPreview_Undecodable(t *testing.T) {
	preview := NewPreview([]byte("RIFF....WEBPVP8 "))
	assert.False(t, preview.Decoded())
	assert.Zero(t, preview.Width)
}

func TestIsImageExtension(t *testing.T) {
	assert.True(t, IsImageExtension("/tmp/IMG_0001.JPG"))
	assert.True(t, IsImageExtension("capture.heic"))
	assert.False(t, IsImageExtension("capture.jpg.part"))
	assert.False(t, IsImageExtension("README"))
}
