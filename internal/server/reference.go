package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"github.com/smallbiznis/storefront/internal/query"
)

type unitOption struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Label     string `json:"label"`
}

// ListReferences returns the reference dimensions for the editor and the
// supplier filter values for the list screen.
func (s *Server) ListReferences(c *gin.Context) {
	set, err := s.references.LoadSet(c.Request.Context())
	if err != nil {
		AbortWithError(c, &productdomain.PersistenceError{Err: err})
		return
	}

	units := make([]unitOption, 0, len(set.Units))
	for _, u := range set.Units {
		units = append(units, unitOption{ID: u.ID, Name: u.Name, ShortName: u.ShortName, Label: u.Label()})
	}

	supplierFilter := make([]string, 0, len(set.Suppliers)+1)
	supplierFilter = append(supplierFilter, query.AllSuppliers)
	for _, sup := range set.Suppliers {
		supplierFilter = append(supplierFilter, sup.Name)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"categories":      set.Categories,
		"manufacturers":   set.Manufacturers,
		"suppliers":       set.Suppliers,
		"units":           units,
		"supplier_filter": supplierFilter,
		"sort_keys": []query.SortKey{
			query.SortNameAsc, query.SortNameDesc,
			query.SortPriceAsc, query.SortPriceDesc,
			query.SortQuantityAsc, query.SortQuantityDesc,
		},
	}})
}
