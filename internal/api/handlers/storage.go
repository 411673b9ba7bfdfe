// storage.go — HTTP handlers storage-service: выдача upload-сессий,
// приём загрузки, подтверждение и выдача артефактов.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
	"github.com/bigkaa/presigned-upload/internal/service"
)

// jsonEnvelopeOverhead — запас на JSON-обёртку вокруг base64 данных.
const jsonEnvelopeOverhead = 4096

// StorageHandler — обработчик эндпоинтов storage-service.
type StorageHandler struct {
	sessions    *service.SessionService
	uploads     *service.UploadService
	validation  *service.ValidationService
	maxFileSize int64
	logger      *slog.Logger
}

// NewStorageHandler создаёт обработчик storage-service.
func NewStorageHandler(
	sessions *service.SessionService,
	uploads *service.UploadService,
	validation *service.ValidationService,
	maxFileSize int64,
	logger *slog.Logger,
) *StorageHandler {
	return &StorageHandler{
		sessions:    sessions,
		uploads:     uploads,
		validation:  validation,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("component", "storage_handler")),
	}
}

// CreatePresignedURL обрабатывает POST /internal/presigned-url.
func (h *StorageHandler) CreatePresignedURL(w http.ResponseWriter, r *http.Request) {
	var req storageapi.CreatePresignedURLJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON запроса")
		return
	}

	meta := model.FileMetadata{
		FileName:    req.Metadata.FileName,
		FileSize:    req.Metadata.FileSize,
		ContentType: req.Metadata.ContentType,
		Timestamp:   req.Metadata.Timestamp,
		ExpiresIn:   req.Metadata.ExpiresIn,
	}

	grant, err := h.sessions.CreateSession(r.Context(), meta, req.Signature)
	if err != nil {
		apierrors.WriteAppError(w, err)
		return
	}

	if caller := middleware.SubjectFromContext(r.Context()); caller != "" {
		h.logger.Debug("Сессия выдана по запросу сервиса",
			slog.String("upload_id", grant.UploadID),
			slog.String("caller", caller),
		)
	}

	writeJSON(w, http.StatusOK, storageapi.PresignedURLResponse{
		UploadUrl: grant.UploadURL,
		UploadId:  grant.UploadID,
		ExpiresAt: grant.ExpiresAt,
	})
}

// UploadFile обрабатывает PUT /upload/{uploadId}.
// Тело: application/json {"base64Data": "..."} или application/octet-stream.
func (h *StorageHandler) UploadFile(w http.ResponseWriter, r *http.Request, uploadId storageapi.UploadId) {
	data, ok := h.readUploadBody(w, r)
	if !ok {
		return
	}

	desc, err := h.uploads.Finalize(r.Context(), uploadId, data)
	if err != nil {
		apierrors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIDescriptor(desc))
}

// readUploadBody читает содержимое файла с ограничением размера.
// При ошибке ответ уже записан и возвращается false.
func (h *StorageHandler) readUploadBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	mediaType := "application/octet-stream"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			apierrors.ValidationError(w, "Некорректный Content-Type")
			return nil, false
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		limit := int64(base64.StdEncoding.EncodedLen(int(h.maxFileSize))) + jsonEnvelopeOverhead
		var req storageapi.UploadFileJSONRequestBody
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(&req); err != nil {
			h.writeBodyError(w, err, "Некорректный JSON запроса")
			return nil, false
		}
		data, err := base64.StdEncoding.DecodeString(req.Base64Data)
		if err != nil {
			apierrors.ValidationError(w, "Поле base64Data не является корректным base64")
			return nil, false
		}
		if int64(len(data)) > h.maxFileSize {
			h.writeTooLarge(w)
			return nil, false
		}
		return data, true

	case "application/octet-stream":
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxFileSize))
		if err != nil {
			h.writeBodyError(w, err, "Ошибка чтения тела запроса")
			return nil, false
		}
		return data, true

	default:
		apierrors.ValidationError(w, fmt.Sprintf("Неподдерживаемый Content-Type: %s", mediaType))
		return nil, false
	}
}

// writeBodyError различает превышение лимита и прочие ошибки чтения.
func (h *StorageHandler) writeBodyError(w http.ResponseWriter, err error, msg string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.writeTooLarge(w)
		return
	}
	apierrors.ValidationError(w, msg)
}

func (h *StorageHandler) writeTooLarge(w http.ResponseWriter) {
	middleware.UploadsTotal.WithLabelValues("too_large").Inc()
	apierrors.FileTooLarge(w, fmt.Sprintf("Размер файла превышает лимит %d байт", h.maxFileSize))
}

// ValidateArtifact обрабатывает GET /internal/artifacts/{artifactId}/validate.
func (h *StorageHandler) ValidateArtifact(w http.ResponseWriter, r *http.Request, artifactId storageapi.ArtifactId) {
	desc := h.validation.Validate(r.Context(), artifactId)
	if desc == nil {
		apierrors.NotFound(w, "Артефакт не найден")
		return
	}
	writeJSON(w, http.StatusOK, toAPIDescriptor(desc))
}

// DownloadArtifact обрабатывает GET /artifacts/{artifactId}.
// Отдаёт содержимое с исходным Content-Type и именем файла.
func (h *StorageHandler) DownloadArtifact(w http.ResponseWriter, r *http.Request, artifactId storageapi.ArtifactId) {
	artifact := h.validation.Open(r.Context(), artifactId)
	if artifact == nil {
		apierrors.NotFound(w, "Артефакт не найден")
		return
	}

	contentType := artifact.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(artifact.FileSize, 10))
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("inline", map[string]string{"filename": artifact.FileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

// HeadArtifact обрабатывает HEAD /artifacts/{artifactId}.
// Только статус, содержимое не читается.
func (h *StorageHandler) HeadArtifact(w http.ResponseWriter, r *http.Request, artifactId storageapi.ArtifactId) {
	if !h.validation.Exists(r.Context(), artifactId) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// toAPIDescriptor преобразует доменное описание в API-модель.
func toAPIDescriptor(d *model.ArtifactDescriptor) storageapi.ArtifactDescriptor {
	return storageapi.ArtifactDescriptor{
		ArtifactId: d.ArtifactID,
		FileName:   d.FileName,
		FileSize:   d.FileSize,
		UploadedAt: d.UploadedAt,
	}
}
