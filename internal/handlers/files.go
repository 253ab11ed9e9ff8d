// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wikibase/internal/models"
	"wikibase/internal/storage"
	"wikibase/internal/store"
)

// maxUploadSize is the maximum allowed attachment size (25 MB).
const maxUploadSize = 25 << 20

// presignTTL is how long a download link stays valid.
const presignTTL = 15 * time.Minute

// Files groups attachment upload and download handlers. Object bytes
// live in S3; metadata lives in the files table.
type Files struct {
	fileStore *store.FileStore
	storage   *storage.Client // nil when object storage is not configured
}

// NewFiles creates a new Files handler group.
func NewFiles(fileStore *store.FileStore, storageClient *storage.Client) *Files {
	return &Files{fileStore: fileStore, storage: storageClient}
}

// Upload accepts one multipart file, stores the object in S3 and
// records its metadata. The returned metadata carries the identifier
// that information records reference.
func (h *Files) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 25 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 25 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// Seek back to start after sniffing.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process file")
		return
	}

	// Generate a unique storage key.
	now := time.Now()
	ext := filepath.Ext(header.Filename)
	fileName := uuid.New().String() + ext
	s3Key := fmt.Sprintf("attachments/%d/%02d/%s", now.Year(), now.Month(), fileName)

	if err := h.storage.Upload(r.Context(), s3Key, contentType, file, header.Size); err != nil {
		slog.Error("attachment upload failed", "key", s3Key, "error", err)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	meta, err := h.fileStore.Create(r.Context(), &models.File{
		OriginalName: header.Filename,
		FileName:     fileName,
		S3Key:        s3Key,
		Mimetype:     contentType,
		SizeBytes:    header.Size,
	})
	if err != nil {
		slog.Error("attachment metadata save failed", "key", s3Key, "error", err)
		// Best effort removal of the orphaned object.
		h.storage.Delete(r.Context(), s3Key)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	slog.Info("attachment uploaded", "id", meta.ID, "key", s3Key, "size", meta.SizeBytes)
	respondJSON(w, http.StatusCreated, meta)
}

// Get returns attachment metadata.
func (h *Files) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	meta, err := h.fileStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find file failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if meta == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, meta)
}

// DownloadURL returns a time-limited pre-signed link for the object.
func (h *Files) DownloadURL(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	meta, err := h.fileStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find file failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if meta == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	url, err := h.storage.PresignedURL(r.Context(), meta.S3Key, presignTTL)
	if err != nil {
		slog.Error("presign failed", "key", meta.S3Key, "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"url":        url,
		"expires_in": presignTTL.String(),
	})
}

// Delete removes an attachment's metadata and object. The RESTRICT
// foreign key rejects deletion while any record still references it.
func (h *Files) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	meta, err := h.fileStore.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find file failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if meta == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.fileStore.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusConflict, "file is still referenced by a record")
		return
	}

	if h.storage != nil {
		if err := h.storage.Delete(r.Context(), meta.S3Key); err != nil {
			slog.Warn("attachment object delete failed", "key", meta.S3Key, "error", err)
		}
	}

	slog.Info("attachment deleted", "id", id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
