package handlers

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "woolshop/internal/log"
)

const (
	maxUploadFiles = 5
	maxUploadBytes = 5 << 20 // per file
)

var (
	errBadImageType  = errors.New("only image files are allowed (jpg, jpeg, png, gif, webp)")
	errImageTooLarge = errors.New("image exceeds the 5MB limit")
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadHandler struct {
	Dir string
}

// POST /api/upload/images (admin) — multipart field "images", up to 5 files.
func (h *UploadHandler) Images(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid multipart form")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return fail(c, fiber.StatusBadRequest, "no files uploaded")
	}
	if len(files) > maxUploadFiles {
		return fail(c, fiber.StatusBadRequest, "at most 5 images per upload")
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := h.save(c, f)
		if err != nil {
			return h.uploadError(c, err)
		}
		urls = append(urls, url)
	}
	applog.Audit(c, "upload.images", map[string]any{"count": len(urls)})
	return okMessage(c, "images uploaded", fiber.Map{"images": urls})
}

// POST /api/upload/image (admin) — multipart field "image", one file.
func (h *UploadHandler) Image(c *fiber.Ctx) error {
	f, err := c.FormFile("image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "no file uploaded")
	}
	url, err := h.save(c, f)
	if err != nil {
		return h.uploadError(c, err)
	}
	applog.Audit(c, "upload.image", map[string]any{"url": url})
	return okMessage(c, "image uploaded", fiber.Map{"image": url})
}

// save validates one file and writes it under a fresh uuid name, returning
// the public /uploads URL. Stored names never derive from client input.
func (h *UploadHandler) save(c *fiber.Ctx, f *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !allowedImageExt[ext] {
		return "", errBadImageType
	}
	if f.Size > maxUploadBytes {
		return "", errImageTooLarge
	}
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	if err := c.SaveFile(f, filepath.Join(h.Dir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (h *UploadHandler) uploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errBadImageType) || errors.Is(err, errImageTooLarge) {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	return failService(c, err)
}
