package service

import (
	"context"
	"testing"
	"time"

	"github.com/bigkaa/presigned-upload/internal/storage/sessionstore"
)

func TestSessionGCRunOnce_NoSessions(t *testing.T) {
	store := sessionstore.NewMemoryStore(testLogger())
	gc := NewSessionGC(store, time.Hour, time.Hour, testLogger())

	result := gc.RunOnce()
	if result.PurgedCount != 0 || result.Remaining != 0 {
		t.Errorf("неожиданный результат: %+v", result)
	}
}

func TestSessionGCRunOnce_RespectsGrace(t *testing.T) {
	env := newTestEnv(t)
	old := env.grant(t, 1)
	env.advance(30 * time.Minute)
	recent := env.grant(t, 1)

	// old истекает в testNow+1h, recent — в testNow+1h30m.
	// Сейчас testNow+2h40m: old просрочена на 1h40m, recent — на 1h10m.
	env.advance(2*time.Hour + 10*time.Minute)

	gc := NewSessionGC(env.sessions, time.Hour, 80*time.Minute, testLogger())
	gc.now = func() time.Time { return *env.clock }

	result := gc.RunOnce()
	if result.PurgedCount != 1 || result.Remaining != 1 {
		t.Fatalf("неожиданный результат: %+v", result)
	}

	if got, _ := env.sessions.Get(context.Background(), old.UploadID); got != nil {
		t.Error("сессия за пределами grace должна быть удалена")
	}

	// Сессия в пределах grace по-прежнему отвечает EXPIRED
	_, err := env.uploads.Finalize(context.Background(), recent.UploadID, []byte("x"))
	if err == nil {
		t.Fatal("ожидали ошибку финализации")
	}
	if got, _ := env.sessions.Get(context.Background(), recent.UploadID); got != nil {
		t.Error("истёкшая сессия удаляется при попытке финализации")
	}
}

func TestSessionGC_StartStop(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, 1)
	env.advance(3 * time.Hour)

	gc := NewSessionGC(env.sessions, 10*time.Millisecond, time.Hour, testLogger())
	gc.now = func() time.Time { return testNow.Add(3 * time.Hour) }

	gc.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for env.sessions.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	gc.Stop()

	if env.sessions.Count() != 0 {
		t.Error("фоновый GC должен удалить просроченную сессию")
	}
}

func TestSessionGC_StopWithoutStart(t *testing.T) {
	gc := NewSessionGC(sessionstore.NewMemoryStore(testLogger()), time.Hour, time.Hour, testLogger())
	gc.Stop()
}
