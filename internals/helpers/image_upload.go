// internals/helpers/image_upload.go
package helper

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"smarttester_backend/internals/constants"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format (jpeg, png or webp expected)")
	ErrImageTooLarge    = errors.New("image exceeds the upload size limit")
)

const UploadsURLPrefix = "/uploads/"

// ImageStore menyimpan gambar soal ke disk lokal sebagai WebP dan
// mengembalikan URL publik di bawah /uploads/.
type ImageStore struct {
	Dir      string
	MaxBytes int64
	MaxW     int
	MaxH     int
	Quality  float32
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{
		Dir:      dir,
		MaxBytes: 5 * 1024 * 1024,
		MaxW:     1280,
		MaxH:     1280,
		Quality:  80,
	}
}

// SaveQuestionImage: decode (jpeg/png/webp) → downscale keep-aspect → WebP → disk.
func (s *ImageStore) SaveQuestionImage(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrUnsupportedImage
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", ErrImageTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	img, err := decodeImage(all, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	img = s.downscaleIfNeeded(img)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: s.Quality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := GenerateUniqueFilename(fh.Filename)
	if err := os.WriteFile(filepath.Join(s.Dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return UploadsURLPrefix + name, nil
}

// IsUploadURL: URL menunjuk file lokal /uploads/<name>.
func IsUploadURL(url string) bool {
	_, ok := uploadName(url)
	return ok
}

func uploadName(url string) (string, bool) {
	name := strings.TrimPrefix(url, UploadsURLPrefix)
	if name == url || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

// Remove menghapus file milik URL /uploads/<name>; URL lain diabaikan.
func (s *ImageStore) Remove(url string) {
	name, ok := uploadName(url)
	if !ok {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] remove upload %s: %v", name, err)
	}
}

func (s *ImageStore) RemoveAll(urls []string) {
	for _, u := range urls {
		s.Remove(u)
	}
}

func decodeImage(all []byte, filename, contentType string) (image.Image, error) {
	if len(all) == 0 {
		return nil, ErrUnsupportedImage
	}
	ct := strings.ToLower(contentType)
	var (
		img image.Image
		err error
	)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		img, err = jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		img, err = png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		// fallback by extension
		if !constants.IsImageFile(filename) {
			return nil, ErrUnsupportedImage
		}
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(bytes.NewReader(all))
		case ".png":
			img, err = png.Decode(bytes.NewReader(all))
		default:
			img, err = webp.Decode(bytes.NewReader(all))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

func (s *ImageStore) downscaleIfNeeded(src image.Image) image.Image {
	b := src.Bounds()
	if (s.MaxW > 0 && b.Dx() > s.MaxW) || (s.MaxH > 0 && b.Dy() > s.MaxH) {
		return imaging.Fit(src, s.MaxW, s.MaxH, imaging.CatmullRom)
	}
	return src
}

func sanitizeFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}

// GenerateUniqueFilename: <yyyymmdd>-<uuid>-<nama>.webp
func GenerateUniqueFilename(originalFilename string) string {
	return fmt.Sprintf("%s-%s-%s.webp",
		time.Now().Format("20060102"),
		uuid.New().String(),
		sanitizeFilename(originalFilename),
	)
}
