package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, fh, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("parsing form file: %v", err)
	}
	return fh
}

func TestSaveWritesFile(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAudioStore: %v", err)
	}

	content := []byte("mp3 bytes")
	path, err := store.Save(uuid.New(), fileHeader(t, "audio.mp3", content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("saved content = %q, want %q", got, content)
	}
}

func TestSavePathsAreUniquePerAsset(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAudioStore: %v", err)
	}

	fh := fileHeader(t, "audio.mp3", []byte("x"))
	p1, err := store.Save(uuid.New(), fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	p2, err := store.Save(uuid.New(), fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p1 == p2 {
		t.Errorf("paths must differ per asset id, both %q", p1)
	}
}
