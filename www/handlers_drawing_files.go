package www

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"fabcatalogue/blobstore"
	"fabcatalogue/logger"
	"fabcatalogue/store"
)

const maxDrawingFileBytes = 32 << 20

func isBlobNotFound(err error) bool {
	return errors.Is(err, blobstore.ErrNotFound)
}

// apiPutDrawingFile stores the raw request body as the drawing's document,
// replacing any earlier one. Objects are addressed by content hash.
func (h *Handlers) apiPutDrawingFile(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDrawing(w, r, notFoundUpdate)
	if !ok {
		return
	}
	if h.engine.Blobs() == nil {
		h.jsonError(w, "File storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	// Spool to a temp file so the hash is known before the upload starts.
	tmp, err := os.CreateTemp("", "drawing-upload-*")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), http.MaxBytesReader(w, r.Body, maxDrawingFileBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if size == 0 {
		h.jsonError(w, "The request body must contain the drawing file.", http.StatusBadRequest)
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		h.writeError(w, r, err)
		return
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	key := fmt.Sprintf("drawings/%d/%s", d.ID, sum)
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	previous, err := h.engine.DB().GetDrawingFile(d.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.writeError(w, r, err)
		return
	}

	if err := h.engine.Blobs().Put(r.Context(), key, contentType, tmp, size); err != nil {
		h.writeError(w, r, err)
		return
	}
	f := &store.DrawingFile{
		DrawingID:   d.ID,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   size,
		SHA256:      sum,
		UploadedBy:  actor(r),
	}
	if err := h.engine.DB().PutDrawingFile(f); err != nil {
		h.removeBlob(r, key)
		h.writeError(w, r, err)
		return
	}
	if previous != nil && previous.ObjectKey != key {
		h.removeBlob(r, previous.ObjectKey)
	}
	logger.FromContext(r.Context()).Infof("www: stored %d bytes for drawing %d", size, d.ID)
	h.engine.RecordAction("drawing", strconv.FormatInt(d.ID, 10), "file_uploaded", sum, actor(r))
	h.jsonOK(w, map[string]any{
		"message": fmt.Sprintf("The file for drawing `%s` has been stored.", d.DrawingNumber),
		"file":    newDrawingFileView(f),
	})
}

func (h *Handlers) apiGetDrawingFile(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDrawing(w, r, notFoundRead)
	if !ok {
		return
	}
	f, err := h.engine.DB().GetDrawingFile(d.ID)
	if errors.Is(err, store.ErrNotFound) || h.engine.Blobs() == nil {
		h.jsonError(w, fmt.Sprintf("The drawing with id=`%d` has no file attached.", d.ID), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := h.engine.Blobs().Get(r.Context(), f.ObjectKey)
	if isBlobNotFound(err) {
		h.jsonError(w, fmt.Sprintf("The drawing with id=`%d` has no file attached.", d.ID), http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.SizeBytes, 10))
	w.Header().Set("ETag", `"`+f.SHA256+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("www: stream drawing file")
	}
}
