package asset

import (
	"context"
	"crypto/rand"
	"errors"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
	"github.com/smallbiznis/storefront/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	extension     = ".jpg"
	uploadPrefix  = "upload_"
	productPrefix = "product_"
)

var (
	ErrForeignPath = errors.New("path outside uploads directory")
	ErrNotUpload   = errors.New("path is not a pending upload")
)

type Params struct {
	fx.In

	Config  config.Config
	Policy  *config.CatalogPolicyHolder
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *metrics.CatalogMetrics `optional:"true"`
}

// Manager owns the uploads directory: it normalises uploaded images, names
// them, and removes files no saved product references.
type Manager struct {
	dir     string
	policy  *config.CatalogPolicyHolder
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.CatalogMetrics

	mu      sync.Mutex
	entropy io.Reader
}

func New(p Params) (*Manager, error) {
	m, err := NewManager(p.Config.UploadsDir, p.Policy, p.Clock, p.Log)
	if err != nil {
		return nil, err
	}
	m.metrics = p.Metrics
	return m, nil
}

func NewManager(dir string, policy *config.CatalogPolicyHolder, clk clock.Clock, log *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.AssetIOError{Path: dir, Op: "mkdir", Err: err}
	}
	return &Manager{
		dir:     dir,
		policy:  policy,
		clock:   clk,
		log:     log.Named("asset.manager"),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

func (m *Manager) Dir() string {
	return m.dir
}

// Upload decodes src, scales it to the storage canvas and writes it under a
// fresh timestamp-derived name. Failures are fatal for the caller.
func (m *Manager) Upload(ctx context.Context, src io.Reader) (path string, err error) {
	defer func() { m.metrics.ObserveAsset("upload", err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := decode(src)
	if err != nil {
		return "", &domain.AssetIOError{Op: "decode", Err: err}
	}

	policy := m.policy.Get()
	path = filepath.Join(m.dir, uploadPrefix+m.newName()+extension)
	if err := m.writeJPEG(path, fit(img, policy.Canvas), policy.JPEGQuality); err != nil {
		return "", err
	}

	m.log.Info("photo uploaded", zap.String("path", path))
	return path, nil
}

// UploadFile is Upload for a file on disk.
func (m *Manager) UploadFile(ctx context.Context, srcPath string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		m.metrics.ObserveAsset("upload", err)
		return "", &domain.AssetIOError{Path: srcPath, Op: "open", Err: err}
	}
	defer f.Close()
	return m.Upload(ctx, f)
}

// Preview renders the stored asset at the preview size. Previews are never
// persisted.
func (m *Manager) Preview(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.AssetIOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, &domain.AssetIOError{Path: path, Op: "decode", Err: err}
	}
	return fit(img, m.policy.Get().Preview), nil
}

// WritePreview encodes the preview of path as JPEG into w.
func (m *Manager) WritePreview(path string, w io.Writer) error {
	img, err := m.Preview(path)
	if err != nil {
		return err
	}
	if err := encodeJPEG(w, img, m.policy.Get().JPEGQuality); err != nil {
		return &domain.AssetIOError{Path: path, Op: "encode", Err: err}
	}
	return nil
}

// CheckUpload verifies that path names an existing, not yet finalized upload
// in the uploads directory.
func (m *Manager) CheckUpload(path string) error {
	if !m.owns(path) {
		return &domain.AssetIOError{Path: path, Op: "attach", Err: ErrForeignPath}
	}
	if !strings.HasPrefix(filepath.Base(path), uploadPrefix) {
		return &domain.AssetIOError{Path: path, Op: "attach", Err: ErrNotUpload}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &domain.AssetIOError{Path: path, Op: "attach", Err: err}
	}
	if info.IsDir() {
		return &domain.AssetIOError{Path: path, Op: "attach", Err: ErrNotUpload}
	}
	return nil
}

// FinalPath is the id-derived name of a saved product's photo.
func (m *Manager) FinalPath(tempPath string, id int64) string {
	ext := filepath.Ext(tempPath)
	if ext == "" {
		ext = extension
	}
	return filepath.Join(m.dir, productPrefix+strconv.FormatInt(id, 10)+ext)
}

// FinalizeOnCreate renames a pre-save upload to its id-derived name. When the
// rename fails the temporary path stays valid and is returned as the
// product's permanent path.
func (m *Manager) FinalizeOnCreate(tempPath string, id int64) (string, CleanupResult) {
	if tempPath == "" {
		return "", CleanupResult{}
	}
	final := m.FinalPath(tempPath, id)
	if final == tempPath {
		return tempPath, CleanupResult{}
	}
	res := m.move(tempPath, final, "finalize")
	if res.Err != nil {
		return tempPath, res
	}
	return final, res
}

// Restore undoes a FinalizeOnCreate whose new path could not be recorded.
func (m *Manager) Restore(finalPath, tempPath string) CleanupResult {
	return m.move(finalPath, tempPath, "restore")
}

// Replace stages newPath as the attachment's photo. An earlier uncommitted
// upload is discarded at once; the committed file is only scheduled for
// removal so a failed save keeps it.
func (m *Manager) Replace(a Attachment, newPath string) (Attachment, CleanupResult) {
	var res CleanupResult
	if stale := a.Uncommitted(); stale != "" && stale != newPath {
		res = m.Discard(stale)
	}
	if a.Committed != "" && a.Committed != newPath {
		a.PendingDelete = a.Committed
	}
	a.Current = newPath
	return a, res
}

// Commit is called once the attachment's current path is durably stored on
// the product; the replaced file is removed then.
func (m *Manager) Commit(a Attachment) (Attachment, CleanupResult) {
	var res CleanupResult
	if a.PendingDelete != "" && a.PendingDelete != a.Current {
		res = m.Discard(a.PendingDelete)
	}
	a.Committed = a.Current
	a.PendingDelete = ""
	return a, res
}

// Abandon drops any uncommitted upload and returns to the committed photo.
func (m *Manager) Abandon(a Attachment) (Attachment, CleanupResult) {
	res := m.Discard(a.Uncommitted())
	a.Current = a.Committed
	a.PendingDelete = ""
	return a, res
}

// Discard removes a file no saved product references. A missing file is not
// an error.
func (m *Manager) Discard(path string) CleanupResult {
	if path == "" {
		return CleanupResult{}
	}
	res := CleanupResult{Op: "discard", Path: path}
	removed, err := m.remove(path)
	res.Removed = removed
	if err != nil {
		res.Err = err
	}
	m.metrics.ObserveAsset("discard", res.Err)
	return res
}

// Delete removes a product's current photo on explicit request. Unlike
// Discard the failure is returned, since the caller must not clear the
// record's photo path while the file still exists.
func (m *Manager) Delete(path string) error {
	if path == "" {
		return nil
	}
	_, err := m.remove(path)
	m.metrics.ObserveAsset("delete", err)
	return err
}

func (m *Manager) remove(path string) (bool, error) {
	if !m.owns(path) {
		return false, &domain.AssetIOError{Path: path, Op: "remove", Err: ErrForeignPath}
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &domain.AssetIOError{Path: path, Op: "remove", Err: err}
	}
	m.log.Info("photo removed", zap.String("path", path))
	return true, nil
}

func (m *Manager) move(from, to, op string) CleanupResult {
	res := CleanupResult{Op: op, Path: from}
	if err := os.Rename(from, to); err != nil {
		res.Err = &domain.AssetIOError{Path: from, Op: "rename", Err: err}
	}
	m.metrics.ObserveAsset(op, res.Err)
	return res
}

func (m *Manager) writeJPEG(path string, img image.Image, quality int) error {
	tmp, err := os.CreateTemp(m.dir, ".upload-*")
	if err != nil {
		return &domain.AssetIOError{Path: path, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := encodeJPEG(tmp, img, quality); err != nil {
		_ = tmp.Close()
		cleanup()
		return &domain.AssetIOError{Path: path, Op: "encode", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &domain.AssetIOError{Path: path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &domain.AssetIOError{Path: path, Op: "write", Err: err}
	}
	return nil
}

func (m *Manager) newName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(m.clock.Now()), m.entropy)
	return strings.ToLower(id.String())
}

func (m *Manager) owns(path string) bool {
	dir, err := filepath.Abs(m.dir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
