package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/storefront/internal/editor"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"github.com/smallbiznis/storefront/internal/query"
	"go.uber.org/zap"
)

func (s *Server) ListProducts(c *gin.Context) {
	var q struct {
		Search   string `form:"search"`
		Supplier string `form:"supplier"`
		Sort     string `form:"sort"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sortKey, err := query.ParseSortKey(q.Sort)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.products.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	supplier := q.Supplier
	if supplier == "" {
		supplier = query.AllSuppliers
	}
	rows := s.query.Run(items, query.Request{
		Search:   q.Search,
		Supplier: supplier,
		Sort:     sortKey,
	})

	c.JSON(http.StatusOK, gin.H{"data": rows, "total": len(items)})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sess, err := s.editor.Load(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sess})
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	sess, err := s.editor.NewDraft(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sess, err = s.save(c, req.applyTo(sess), req.PhotoPath)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": sess})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sess, err := s.editor.Load(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sess, err = s.save(c, req.applyTo(sess), req.PhotoPath)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sess})
}

// save attaches the requested upload and saves the session. A save the store
// rejected cancels the session so its upload does not linger; a validation
// failure keeps the upload so the client can resubmit it.
func (s *Server) save(c *gin.Context, sess editor.Session, photoPath *string) (editor.Session, error) {
	ctx := c.Request.Context()

	if photoPath != nil && *photoPath != "" {
		attached, err := s.editor.AttachUpload(ctx, sess, *photoPath)
		if err != nil {
			s.log.Warn("rejected photo path", zap.String("path", *photoPath), zap.Error(err))
			if errors.Is(err, editor.ErrPhotoInUse) {
				return sess, newValidationError("photo_path", "photo_in_use")
			}
			if productdomain.ReasonOf(err) == productdomain.ReasonPersistence {
				return sess, err
			}
			return sess, newValidationError("photo_path", "invalid_photo_path")
		}
		sess = attached
	}

	saved, err := s.editor.Save(ctx, sess)
	if err != nil {
		if productdomain.ReasonOf(err) != productdomain.ReasonValidation {
			s.editor.Cancel(ctx, sess)
		}
		return sess, err
	}
	return saved, nil
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.editor.DeleteProduct(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteProductPhoto(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	sess, err := s.editor.Load(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if sess.Photo.Current == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	sess, err = s.editor.DeletePhoto(ctx, sess)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sess})
}
