// postprocess.go — фоновая пост-обработка сохранённых артефактов.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// PostProcessor запускает обработку артефакта в отдельной горутине
// после успешной финализации. Ошибки и паники только логируются
// и не влияют на ответ клиенту.
type PostProcessor struct {
	delay  time.Duration
	logger *slog.Logger
	wg     sync.WaitGroup

	// process подменяется в тестах
	process func(artifact *model.StoredArtifact) error
}

// NewPostProcessor создаёт пост-обработчик с задержкой перед обработкой.
func NewPostProcessor(delay time.Duration, logger *slog.Logger) *PostProcessor {
	p := &PostProcessor{
		delay:  delay,
		logger: logger.With(slog.String("component", "post_processor")),
	}
	p.process = p.checksum
	return p
}

// Submit запускает обработку артефакта и сразу возвращает управление.
func (p *PostProcessor) Submit(artifact *model.StoredArtifact) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Паника при пост-обработке",
					slog.String("artifact_id", artifact.ArtifactID),
					slog.String("panic", fmt.Sprint(r)),
				)
			}
		}()

		if p.delay > 0 {
			time.Sleep(p.delay)
		}
		if err := p.process(artifact); err != nil {
			p.logger.Error("Ошибка пост-обработки",
				slog.String("artifact_id", artifact.ArtifactID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Wait ожидает завершения запущенных обработок или отмены ctx.
// Возвращает ctx.Err(), если ожидание прервано.
func (p *PostProcessor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// checksum вычисляет SHA-256 артефакта и записывает его в лог.
func (p *PostProcessor) checksum(artifact *model.StoredArtifact) error {
	sum := sha256.Sum256(artifact.Data)
	p.logger.Info("Пост-обработка завершена",
		slog.String("artifact_id", artifact.ArtifactID),
		slog.String("file_name", artifact.FileName),
		slog.String("sha256", hex.EncodeToString(sum[:])),
	)
	return nil
}
