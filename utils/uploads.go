package utils

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicehub-backend/config"
	"invoicehub-backend/logger"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// Uploads tracks files written during one request. Rollback removes everything saved;
// Commit removes the files that were replaced.
type Uploads struct {
	saved    []string
	replaced []string
}

// Save stores the multipart file in field under UPLOAD_DIR/kind and returns the stored path
// relative to UPLOAD_DIR. It returns "" when the field is absent.
func (u *Uploads) Save(c *gin.Context, field, kind string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", BadRequest("Invalid upload for " + field)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return "", ValidationError(map[string]string{field: "must be an image (png, jpg, jpeg, gif, webp, svg)"})
	}

	rel := filepath.ToSlash(filepath.Join(kind, uuid.NewString()+ext))
	dst := filepath.Join(config.App.UploadDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", Internal(err)
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", Internal(err)
	}
	u.saved = append(u.saved, rel)
	return rel, nil
}

// Replace schedules old for removal once the request succeeds.
func (u *Uploads) Replace(old string) {
	if old != "" {
		u.replaced = append(u.replaced, old)
	}
}

func (u *Uploads) Rollback() {
	RemoveUploads(u.saved...)
	u.saved = nil
}

func (u *Uploads) Commit() {
	RemoveUploads(u.replaced...)
	u.saved = nil
	u.replaced = nil
}

// RemoveUploads deletes stored files, ignoring ones already gone.
func RemoveUploads(paths ...string) {
	log := logger.WithComponent("uploads")
	for _, p := range paths {
		if p == "" || strings.Contains(p, "..") {
			continue
		}
		if err := os.Remove(filepath.Join(config.App.UploadDir, filepath.FromSlash(p))); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p).Msg("failed to remove upload")
		}
	}
}
