package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicehub-backend/config"
)

func uploadContext(t *testing.T, field, filename string) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("payload", "{}"))
	require.NoError(t, mw.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c
}

func TestUploadsSaveAndRollback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.App = config.Defaults()
	config.App.UploadDir = t.TempDir()

	var u Uploads
	rel, err := u.Save(uploadContext(t, "image", "Logo.PNG"), "image", "signatures")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(rel))
	assert.FileExists(t, filepath.Join(config.App.UploadDir, rel))

	u.Rollback()
	assert.NoFileExists(t, filepath.Join(config.App.UploadDir, rel))
}

func TestUploadsCommitRemovesReplaced(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.App = config.Defaults()
	config.App.UploadDir = t.TempDir()

	old := filepath.Join("profiles", "old.png")
	require.NoError(t, os.MkdirAll(filepath.Join(config.App.UploadDir, "profiles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(config.App.UploadDir, old), []byte("x"), 0o644))

	var u Uploads
	rel, err := u.Save(uploadContext(t, "image", "new.jpg"), "image", "profiles")
	require.NoError(t, err)
	u.Replace(filepath.ToSlash(old))
	u.Commit()

	assert.NoFileExists(t, filepath.Join(config.App.UploadDir, old))
	assert.FileExists(t, filepath.Join(config.App.UploadDir, rel))

	// a later rollback must not touch committed files
	u.Rollback()
	assert.FileExists(t, filepath.Join(config.App.UploadDir, rel))
}

func TestUploadsRejectsNonImages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.App = config.Defaults()
	config.App.UploadDir = t.TempDir()

	var u Uploads
	_, err := u.Save(uploadContext(t, "image", "invoice.pdf"), "image", "profiles")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, AsAppError(err).Status)

	rel, err := u.Save(uploadContext(t, "", ""), "image", "profiles")
	require.NoError(t, err)
	assert.Empty(t, rel)
}
