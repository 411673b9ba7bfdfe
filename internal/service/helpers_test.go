package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bigkaa/presigned-upload/internal/config"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
	"github.com/bigkaa/presigned-upload/internal/signature"
	"github.com/bigkaa/presigned-upload/internal/storage/artifactstore"
	"github.com/bigkaa/presigned-upload/internal/storage/sessionstore"
)

// testNow — фиксированное «текущее» время тестов.
var testNow = time.Unix(1_700_000_000, 0)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() *config.StorageConfig {
	return &config.StorageConfig{
		PublicURL:          "http://storage.test",
		SigningSecret:      "test-secret",
		MaxFileSize:        10 * 1024 * 1024,
		TimestampTolerance: 300 * time.Second,
		MaxSessionTTL:      24 * time.Hour,
	}
}

// testEnv — связка сервисов storage-side поверх in-memory хранилищ.
type testEnv struct {
	cfg       *config.StorageConfig
	signer    *signature.HMACSigner
	sessions  *sessionstore.MemoryStore
	artifacts *artifactstore.MemoryStore
	issuer    *SessionService
	uploads   *UploadService
	validator *ValidationService
	clock     *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	signer, err := signature.New([]byte(cfg.SigningSecret))
	if err != nil {
		t.Fatalf("signature.New: %v", err)
	}
	logger := testLogger()

	env := &testEnv{
		cfg:       cfg,
		signer:    signer,
		sessions:  sessionstore.NewMemoryStore(logger),
		artifacts: artifactstore.NewMemoryStore(logger),
	}
	clock := testNow
	env.clock = &clock
	now := func() time.Time { return *env.clock }

	env.issuer = NewSessionService(cfg, signer, env.sessions, logger)
	env.issuer.now = now
	env.uploads = NewUploadService(env.sessions, env.artifacts, nil, logger)
	env.uploads.now = now
	env.validator = NewValidationService(env.artifacts, logger)
	return env
}

// advance сдвигает часы тестового окружения.
func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func (e *testEnv) metadata(size int64) model.FileMetadata {
	return model.FileMetadata{
		FileName:    "photo.png",
		FileSize:    size,
		ContentType: "image/png",
		Timestamp:   e.clock.Unix(),
		ExpiresIn:   3600,
	}
}

// grant выдаёт сессию для корректно подписанных метаданных заданного размера.
func (e *testEnv) grant(t *testing.T, size int64) *model.UploadGrant {
	t.Helper()

	meta := e.metadata(size)
	sig, err := e.signer.Sign(meta)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	g, err := e.issuer.CreateSession(context.Background(), meta, sig)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return g
}
