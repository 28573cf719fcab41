package editor

import (
	"github.com/smallbiznis/storefront/internal/asset"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
)

type State string

const (
	StateDraft     State = "draft"
	StateLoaded    State = "loaded"
	StatePersisted State = "persisted"
	StateUpdated   State = "updated"
	StateDeleted   State = "deleted"
	StateDiscarded State = "discarded"
)

// Closed reports whether the session reached a terminal state.
func (s State) Closed() bool {
	return s == StateDeleted || s == StateDiscarded
}

// Session is the edit buffer of one product editor. It is a value: every
// operation returns the updated session.
type Session struct {
	ProductID int64               `json:"product_id,omitempty"`
	State     State               `json:"state"`
	Input     productdomain.Input `json:"input"`

	Category     referencedomain.Selection `json:"category"`
	Manufacturer referencedomain.Selection `json:"manufacturer"`
	Supplier     referencedomain.Selection `json:"supplier"`
	Unit         referencedomain.Selection `json:"unit"`

	Photo      asset.Attachment    `json:"photo"`
	References referencedomain.Set `json:"-"`
}

// Fields parses the buffer into store fields, resolving every selection
// against the session's reference set.
func (s Session) Fields() (productdomain.Fields, []productdomain.FieldError) {
	fields, errs := productdomain.Parse(s.Input)
	if len(errs) > 0 {
		return productdomain.Fields{}, errs
	}
	fields.CategoryID = s.References.Resolve(referencedomain.KindCategory, s.Category)
	fields.ManufacturerID = s.References.Resolve(referencedomain.KindManufacturer, s.Manufacturer)
	fields.SupplierID = s.References.Resolve(referencedomain.KindSupplier, s.Supplier)
	fields.UnitID = s.References.Resolve(referencedomain.KindUnit, s.Unit)
	fields.PhotoPath = s.Photo.PhotoPath()
	return fields, nil
}

func selectionOf(set referencedomain.Set, kind referencedomain.Kind, id *int64) referencedomain.Selection {
	if id == nil {
		return referencedomain.Selection{}
	}
	return referencedomain.Selection{ID: *id, Name: set.NameOf(kind, id)}
}
