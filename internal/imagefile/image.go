// Package imagefile loads and validates the photo a user wants analyzed.
package imagefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize is the largest accepted upload (5 MiB)
const DefaultMaxSize int64 = 5 * 1024 * 1024

var (
	// ErrNotImage is returned when the content is not an image/* type
	ErrNotImage = errors.New("not an image")

	// ErrTooLarge is returned when the file exceeds the size limit
	ErrTooLarge = errors.New("image too large")
)

// ValidationError carries the message shown to the user alongside the
// sentinel that caused it.
type ValidationError struct {
	Err     error
	Message string
	Path    string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Image is a validated photo ready for upload
type Image struct {
	Path     string
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
	Preview  *Preview
}

// Validator checks files against the upload constraints
type Validator struct {
	MaxSize int64
}

// NewValidator creates a validator; maxSize <= 0 selects DefaultMaxSize
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Validator{MaxSize: maxSize}
}

// Check validates a MIME type and size pair. Type is checked before size.
func (v *Validator) Check(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return &ValidationError{Err: ErrNotImage, Message: "Please upload a valid image file (JPG, PNG)."}
	}
	if size > v.MaxSize {
		return &ValidationError{
			Err:     ErrTooLarge,
			Message: fmt.Sprintf("File is too large. Please upload an image under %s.", humanSize(v.MaxSize)),
		}
	}
	return nil
}

// Load reads path, sniffs its MIME type from content and validates it.
// Nothing is returned on rejection.
func (v *Validator) Load(path string) (*Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty image path")
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not an image", cleanPath)
	}

	// Validate from the header and stat size before reading the whole file.
	mtype, err := mimetype.DetectFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect image type: %w", err)
	}
	if err := v.Check(mtype.String(), info.Size()); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = cleanPath
		}
		return nil, err
	}

	// #nosec G304 - path is chosen by the user and validated above
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer func() { _ = f.Close() }()

	// the file may still be growing (camera inbox), so the stat size is
	// not trusted
	data, err := v.readChecked(cleanPath, mtype.String(), f)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Path:     cleanPath,
		Name:     filepath.Base(cleanPath),
		MIMEType: baseMIME(mtype.String()),
		Size:     int64(len(data)),
		Data:     data,
	}
	img.Preview = NewPreview(data)
	return img, nil
}

// readChecked reads at most one byte past the limit and validates the
// size actually read.
func (v *Validator) readChecked(path, mimeType string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, v.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := v.Check(mimeType, int64(len(data))); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
		}
		return nil, err
	}
	return data, nil
}

// LoadReader validates an image streamed from r, such as stdin
func (v *Validator) LoadReader(name string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, v.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return v.LoadBytes(name, data)
}

// LoadBytes validates an in-memory image
func (v *Validator) LoadBytes(name string, data []byte) (*Image, error) {
	mtype := mimetype.Detect(data)
	if err := v.Check(mtype.String(), int64(len(data))); err != nil {
		return nil, err
	}
	if name == "" {
		name = "upload" + mtype.Extension()
	}
	return &Image{
		Name:     name,
		MIMEType: baseMIME(mtype.String()),
		Size:     int64(len(data)),
		Data:     data,
		Preview:  NewPreview(data),
	}, nil
}

// IsImageExtension reports whether path looks like a photo by extension.
// Used to filter directory listings and watcher events before sniffing.
func IsImageExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".heic", ".heif":
		return true
	}
	return false
}

// baseMIME strips parameters such as "; charset=binary"
func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return strings.TrimSpace(m[:i])
	}
	return m
}

// humanSize renders whole mebibytes as "5MB" and anything else in KB.
// The rejection message uses this exact form, which go-humanize cannot produce.
func humanSize(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%dKB", n/1024)
}
