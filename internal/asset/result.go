package asset

import "go.uber.org/zap"

// CleanupResult is the outcome of a best-effort filesystem step. It never
// aborts the surrounding operation; callers log it.
type CleanupResult struct {
	Op      string
	Path    string
	Removed bool
	Err     error
}

func (r CleanupResult) Failed() bool {
	return r.Err != nil
}

// Log writes failed results at warn level and successful removals at debug.
func (r CleanupResult) Log(log *zap.Logger) {
	if log == nil || r.Path == "" {
		return
	}
	if r.Err != nil {
		log.Warn("asset cleanup failed",
			zap.String("op", r.Op),
			zap.String("path", r.Path),
			zap.Error(r.Err),
		)
		return
	}
	log.Debug("asset cleanup",
		zap.String("op", r.Op),
		zap.String("path", r.Path),
		zap.Bool("removed", r.Removed),
	)
}

// Attachment tracks the photo of one product across an editing session.
type Attachment struct {
	// Current is the file the editor shows; "" means no photo.
	Current string `json:"current,omitempty"`
	// Committed is the file stored on the product record.
	Committed string `json:"committed,omitempty"`
	// PendingDelete is a committed file to remove once Current is saved.
	PendingDelete string `json:"pending_delete,omitempty"`
}

// CommittedAttachment returns the attachment of a record loaded with photoPath.
func CommittedAttachment(photoPath *string) Attachment {
	if photoPath == nil {
		return Attachment{}
	}
	return Attachment{Current: *photoPath, Committed: *photoPath}
}

func (a Attachment) Dirty() bool {
	return a.Current != a.Committed
}

// Uncommitted returns the uploaded file not yet owned by a saved product.
func (a Attachment) Uncommitted() string {
	if a.Current != "" && a.Current != a.Committed {
		return a.Current
	}
	return ""
}

// PhotoPath is the value to persist on the product record.
func (a Attachment) PhotoPath() *string {
	if a.Current == "" {
		return nil
	}
	path := a.Current
	return &path
}
