// validate.go — проверка существования артефактов.
package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// ArtifactReader — чтение артефактов по идентификатору.
type ArtifactReader interface {
	Get(artifactID string) *model.StoredArtifact
	Exists(artifactID string) bool
}

// ValidationService — ответы на запросы о существовании артефактов.
// Не изменяет состояние.
type ValidationService struct {
	artifacts ArtifactReader
	logger    *slog.Logger
}

// NewValidationService создаёт сервис проверки артефактов.
func NewValidationService(artifacts ArtifactReader, logger *slog.Logger) *ValidationService {
	return &ValidationService{
		artifacts: artifacts,
		logger:    logger.With(slog.String("component", "validation_service")),
	}
}

// Validate возвращает описание артефакта или nil, если его нет.
func (s *ValidationService) Validate(_ context.Context, artifactID string) *model.ArtifactDescriptor {
	artifact := s.artifacts.Get(artifactID)
	if artifact == nil {
		s.logger.Debug("Артефакт не найден", slog.String("artifact_id", artifactID))
		return nil
	}
	return artifact.Descriptor()
}

// Open возвращает артефакт с данными или nil.
func (s *ValidationService) Open(_ context.Context, artifactID string) *model.StoredArtifact {
	return s.artifacts.Get(artifactID)
}

// Exists сообщает о наличии артефакта без копирования записи.
func (s *ValidationService) Exists(_ context.Context, artifactID string) bool {
	return s.artifacts.Exists(artifactID)
}
