// file: internals/helpers/image.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const maxImageBytes = 5 << 20 // 5MB upload cap

var reUnsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// ConvertToWebP decodes an uploaded image, fits it inside maxW×maxH
// (Lanczos) and re-encodes as lossy WebP.
func ConvertToWebP(r io.Reader, maxW, maxH int, quality float32) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if maxW > 0 || maxH > 0 {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}
	if quality <= 0 {
		quality = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveUploadedImage converts fileHeader to WebP and writes it under
// UPLOAD_DIR/<folder>/. Returns the public URL.
func SaveUploadedImage(folder string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxImageBytes {
		return "", fmt.Errorf("image exceeds %dMB", maxImageBytes>>20)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded image: %w", err)
	}
	defer src.Close()

	encoded, err := ConvertToWebP(src, 1600, 1600, 80)
	if err != nil {
		return "", err
	}

	filename := GenerateUniqueFilename(fileHeader.Filename)
	dir := path.Join(uploadDir(), folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(path.Join(dir, filename), encoded, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	base := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	return fmt.Sprintf("%s/uploads/%s/%s", base, folder, filename), nil
}

func GenerateUniqueFilename(original string) string {
	name := reUnsafeFilename.ReplaceAllString(original, "-")
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%d-%s-%s.webp", time.Now().Unix(), uuid.NewString()[:8], name)
}

func uploadDir() string {
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		return v
	}
	return "./uploads"
}
