package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
)

const maxUploadBytes = 16 << 20

func (s *Server) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		AbortWithError(c, newValidationError("file", "unreadable"))
		return
	}
	defer f.Close()

	path, err := s.assets.Upload(c.Request.Context(), f)
	if err != nil {
		var aErr *productdomain.AssetIOError
		if errors.As(err, &aErr) && aErr.Op == "decode" {
			AbortWithError(c, newValidationError("file", "invalid_image"))
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"path": path}})
}

// PreviewProductPhoto renders the stored photo at preview size. Nothing is
// cached; every call decodes the stored asset again.
func (s *Server) PreviewProductPhoto(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	p, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if p.PhotoPath == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var buf bytes.Buffer
	if err := s.assets.WritePreview(*p.PhotoPath, &buf); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}
