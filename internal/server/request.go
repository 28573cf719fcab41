package server

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/smallbiznis/storefront/internal/editor"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
)

// formText accepts a JSON string or number and keeps it as the raw text the
// editor would have received.
type formText string

func (t *formText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = formText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = formText(n.String())
	return nil
}

type productRequest struct {
	Name        formText `json:"name"`
	Description formText `json:"description"`
	Price       formText `json:"price"`
	Discount    formText `json:"discount"`
	Quantity    formText `json:"quantity"`

	Category     referencedomain.Selection `json:"category"`
	Manufacturer referencedomain.Selection `json:"manufacturer"`
	Supplier     referencedomain.Selection `json:"supplier"`
	Unit         referencedomain.Selection `json:"unit"`

	// PhotoPath is a path returned by POST /api/uploads.
	PhotoPath *string `json:"photo_path"`
}

func (r productRequest) applyTo(sess editor.Session) editor.Session {
	sess.Input = productdomain.Input{
		Name:        string(r.Name),
		Description: string(r.Description),
		Price:       string(r.Price),
		Discount:    string(r.Discount),
		Quantity:    string(r.Quantity),
	}
	sess.Category = r.Category
	sess.Manufacturer = r.Manufacturer
	sess.Supplier = r.Supplier
	sess.Unit = r.Unit
	return sess
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, newValidationError("id", "invalid_id")
	}
	return id, nil
}
