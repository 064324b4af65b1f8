package controllers

import (
	"errors"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	uploadDir  string
	uploadPath string
)

func SetUploadConfig(dir, publicPath string) {
	uploadDir = dir
	uploadPath = publicPath
}

var errUnsupportedImage = errors.New("unsupported image type")

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpeg": true,
	".jpg":  true,
}

// saveProductImage rejects anything that is not PNG/JPEG before touching
// disk, then stores the file under a random name and returns its public URL.
func saveProductImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		return "", errUnsupportedImage
	}
	// octet-stream is what generic clients send; the extension check above
	// already gated those
	contentType := fh.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" && !allowedImageTypes[contentType] {
		return "", errUnsupportedImage
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(fh, filepath.Join(uploadDir, name)); err != nil {
		return "", err
	}
	return path.Join(uploadPath, name), nil
}
