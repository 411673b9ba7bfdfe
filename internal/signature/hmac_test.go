package signature

import (
	"errors"
	"testing"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

func testMetadata() model.FileMetadata {
	return model.FileMetadata{
		FileName:    "photo.png",
		FileSize:    2048,
		ContentType: "image/png",
		Timestamp:   1_700_000_000,
		ExpiresIn:   3600,
	}
}

func TestNew_EmptySecret(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("ожидали ErrEmptySecret, получили %v", err)
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	s, err := New([]byte("secret"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	meta := testMetadata()
	sig, err := s.Sign(meta)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sig == "" {
		t.Fatal("пустая подпись")
	}
	if !s.Verify(meta, sig) {
		t.Error("подпись, вычисленная тем же секретом, должна проходить проверку")
	}

	again, _ := s.Sign(meta)
	if again != sig {
		t.Error("подпись должна быть детерминированной")
	}
}

func TestVerify_TamperedMetadata(t *testing.T) {
	s, _ := New([]byte("secret"))
	meta := testMetadata()
	sig, _ := s.Sign(meta)

	tests := []struct {
		name   string
		mutate func(m *model.FileMetadata)
	}{
		{"имя файла", func(m *model.FileMetadata) { m.FileName = "photo.pnh" }},
		{"размер", func(m *model.FileMetadata) { m.FileSize++ }},
		{"тип", func(m *model.FileMetadata) { m.ContentType = "image/jpeg" }},
		{"timestamp", func(m *model.FileMetadata) { m.Timestamp++ }},
		{"время жизни", func(m *model.FileMetadata) { m.ExpiresIn = 7200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meta
			tt.mutate(&m)
			if s.Verify(m, sig) {
				t.Error("изменённые метаданные не должны проходить проверку")
			}
		})
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	s, _ := New([]byte("secret"))
	meta := testMetadata()
	sig, _ := s.Sign(meta)

	b := []byte(sig)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	if s.Verify(meta, string(b)) {
		t.Error("изменённая подпись не должна проходить проверку")
	}
	if s.Verify(meta, "") {
		t.Error("пустая подпись не должна проходить проверку")
	}
}

func TestVerify_DifferentSecret(t *testing.T) {
	a, _ := New([]byte("secret-a"))
	b, _ := New([]byte("secret-b"))
	meta := testMetadata()

	sig, _ := a.Sign(meta)
	if b.Verify(meta, sig) {
		t.Error("подпись другим секретом не должна проходить проверку")
	}
}

func TestSign_UnmarshalablePayload(t *testing.T) {
	s, _ := New([]byte("secret"))
	if _, err := s.Sign(make(chan int)); err == nil {
		t.Error("ожидали ошибку сериализации")
	}
	if s.Verify(make(chan int), "x") {
		t.Error("несериализуемая нагрузка не должна проходить проверку")
	}
}
