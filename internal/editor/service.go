package editor

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/smallbiznis/storefront/internal/asset"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrSessionClosed = errors.New("session_closed")
	ErrPhotoInUse    = errors.New("photo_in_use")
)

type Params struct {
	fx.In

	Products   productdomain.Service
	References referencedomain.Repository
	Assets     *asset.Manager
	Log        *zap.Logger
}

// Service drives product editor sessions: validate, resolve references,
// persist, then settle the photo asset. Steps that touch photo files or
// product records run one at a time, so an upload is never claimed by one
// session while another removes it.
type Service struct {
	products   productdomain.Service
	references referencedomain.Repository
	assets     *asset.Manager
	log        *zap.Logger

	mu sync.Mutex
}

func New(p Params) *Service {
	return &Service{
		products:   p.Products,
		references: p.References,
		assets:     p.Assets,
		log:        p.Log.Named("editor.service"),
	}
}

func (s *Service) NewDraft(ctx context.Context) (Session, error) {
	set, err := s.references.LoadSet(ctx)
	if err != nil {
		return Session{}, &productdomain.PersistenceError{Err: err}
	}
	return Session{State: StateDraft, References: set}, nil
}

func (s *Service) Load(ctx context.Context, id int64) (Session, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	set, err := s.references.LoadSet(ctx)
	if err != nil {
		return Session{}, &productdomain.PersistenceError{Err: err}
	}

	return Session{
		ProductID:    p.ID,
		State:        StateLoaded,
		Input:        productdomain.InputOf(*p),
		Category:     selectionOf(set, referencedomain.KindCategory, p.CategoryID),
		Manufacturer: selectionOf(set, referencedomain.KindManufacturer, p.ManufacturerID),
		Supplier:     selectionOf(set, referencedomain.KindSupplier, p.SupplierID),
		Unit:         selectionOf(set, referencedomain.KindUnit, p.UnitID),
		Photo:        asset.CommittedAttachment(p.PhotoPath),
		References:   set,
	}, nil
}

// UploadPhoto stores src as the session's new photo. The previous photo stays
// on disk until the session is saved.
func (s *Service) UploadPhoto(ctx context.Context, sess Session, src io.Reader) (Session, error) {
	if sess.State.Closed() {
		return sess, ErrSessionClosed
	}
	path, err := s.assets.Upload(ctx, src)
	if err != nil {
		return sess, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attach(ctx, sess, path), nil
}

// AttachUpload stages a file produced by an earlier upload. A file already
// recorded on a product is refused with ErrPhotoInUse.
func (s *Service) AttachUpload(ctx context.Context, sess Session, path string) (Session, error) {
	if sess.State.Closed() {
		return sess, ErrSessionClosed
	}
	if path == sess.Photo.Current {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnclaimed(ctx, path); err != nil {
		return sess, err
	}
	return s.attach(ctx, sess, path), nil
}

func (s *Service) attach(ctx context.Context, sess Session, path string) Session {
	s.release(ctx, &sess.Photo)

	var res asset.CleanupResult
	sess.Photo, res = s.assets.Replace(sess.Photo, path)
	res.Log(s.log)
	return sess
}

// checkUnclaimed reports whether path is a stored upload that no product
// record references.
func (s *Service) checkUnclaimed(ctx context.Context, path string) error {
	if err := s.assets.CheckUpload(path); err != nil {
		return err
	}
	owner, err := s.products.PhotoOwner(ctx, path)
	if err != nil {
		return err
	}
	if owner != 0 {
		return ErrPhotoInUse
	}
	return nil
}

// release drops the attachment's uncommitted upload from it without touching
// the file when some product record references that file. The asset manager
// then has nothing of another product's to discard.
func (s *Service) release(ctx context.Context, a *asset.Attachment) {
	pending := a.Uncommitted()
	if pending == "" {
		return
	}
	owner, err := s.products.PhotoOwner(ctx, pending)
	if err == nil && owner == 0 {
		return
	}
	s.log.Warn("keeping upload referenced by a product",
		zap.String("path", pending),
		zap.Int64("owner_id", owner),
		zap.Error(err),
	)
	a.Current = a.Committed
}

// DeletePhoto removes the session's current photo. A photo already stored on
// the product is removed from disk first and only then cleared on the record.
func (s *Service) DeletePhoto(ctx context.Context, sess Session) (Session, error) {
	if sess.State.Closed() {
		return sess, ErrSessionClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.Photo.Uncommitted() != "" {
		s.release(ctx, &sess.Photo)
		res := s.assets.Discard(sess.Photo.Uncommitted())
		res.Log(s.log)
		if res.Failed() {
			return sess, res.Err
		}
		sess.Photo.Current = ""
		return sess, nil
	}

	committed := sess.Photo.Committed
	if committed == "" {
		return sess, nil
	}
	if err := s.assets.Delete(committed); err != nil {
		return sess, err
	}
	if sess.ProductID != 0 {
		if err := s.products.SetPhoto(ctx, sess.ProductID, nil); err != nil {
			return sess, err
		}
	}
	sess.Photo = asset.Attachment{}
	return sess, nil
}

// Save validates the buffer and persists it. Nothing reaches the store when
// validation fails.
func (s *Service) Save(ctx context.Context, sess Session) (Session, error) {
	if sess.State.Closed() {
		return sess, ErrSessionClosed
	}

	fields, errs := sess.Fields()
	if len(errs) > 0 {
		return sess, &productdomain.ValidationError{Errors: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pending := sess.Photo.Uncommitted(); pending != "" {
		switch err := s.checkUnclaimed(ctx, pending); {
		case err == nil:
		case errors.Is(err, ErrPhotoInUse), errors.Is(err, productdomain.ErrAssetIO):
			s.log.Warn("staged photo is no longer available",
				zap.String("path", pending),
				zap.Error(err),
			)
			return sess, &productdomain.ValidationError{Errors: []productdomain.FieldError{
				{Field: productdomain.FieldPhoto, Code: productdomain.CodeUnavailable},
			}}
		default:
			return sess, err
		}
	}

	var res asset.CleanupResult
	if sess.State == StateDraft {
		id, err := s.products.Create(ctx, fields)
		if err != nil {
			return sess, err
		}
		sess.ProductID = id
		sess.State = StatePersisted
	} else {
		if err := s.products.Update(ctx, sess.ProductID, fields); err != nil {
			return sess, err
		}
		sess.State = StateUpdated
	}

	sess.Photo, res = s.assets.Commit(sess.Photo)
	res.Log(s.log)
	return s.finalizePhoto(ctx, sess), nil
}

// finalizePhoto gives a freshly committed upload its id-derived name. Any
// failure leaves the upload name in place as the permanent path.
func (s *Service) finalizePhoto(ctx context.Context, sess Session) Session {
	current := sess.Photo.Current
	if current == "" {
		return sess
	}

	final, res := s.assets.FinalizeOnCreate(current, sess.ProductID)
	res.Log(s.log)
	if final == current {
		return sess
	}

	if err := s.products.SetPhoto(ctx, sess.ProductID, &final); err != nil {
		s.log.Warn("failed to record finalized photo, keeping upload name",
			zap.Int64("product_id", sess.ProductID),
			zap.String("path", current),
			zap.Error(err),
		)
		res := s.assets.Restore(final, current)
		if !res.Failed() {
			res.Log(s.log)
			return sess
		}
		s.log.Error("product photo record points at a missing file",
			zap.Int64("product_id", sess.ProductID),
			zap.String("recorded_path", current),
			zap.String("file_path", final),
			zap.Error(res.Err),
		)
		return sess
	}

	sess.Photo = asset.Attachment{Current: final, Committed: final}
	return sess
}

// Cancel abandons the session, removing any upload it never committed.
func (s *Service) Cancel(ctx context.Context, sess Session) Session {
	if sess.State.Closed() {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel(ctx, sess)
}

func (s *Service) cancel(ctx context.Context, sess Session) Session {
	s.release(ctx, &sess.Photo)

	var res asset.CleanupResult
	sess.Photo, res = s.assets.Abandon(sess.Photo)
	res.Log(s.log)
	sess.State = StateDiscarded
	return sess
}

// Delete removes the session's product, then discards its uncommitted upload.
func (s *Service) Delete(ctx context.Context, sess Session) (Session, error) {
	if sess.State.Closed() {
		return sess, ErrSessionClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ProductID == 0 {
		return s.cancel(ctx, sess), nil
	}
	if err := s.deleteProduct(ctx, sess.ProductID); err != nil {
		return sess, err
	}
	s.release(ctx, &sess.Photo)
	s.assets.Discard(sess.Photo.Uncommitted()).Log(s.log)
	sess.Photo = asset.Attachment{}
	sess.State = StateDeleted
	return sess, nil
}

// DeleteProduct deletes a product and then its photo. A delete blocked by
// order references leaves both the record and the file untouched.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteProduct(ctx, id)
}

func (s *Service) deleteProduct(ctx context.Context, id int64) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	if p.PhotoPath != nil {
		s.assets.Discard(*p.PhotoPath).Log(s.log)
	}
	s.log.Info("product removed", zap.Int64("product_id", id))
	return nil
}
