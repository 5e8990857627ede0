package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/badarts/club-backend/storage"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return &storage.UploadResult{Key: key}, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStore) GetPublicURL(string) string { return "" }

func testService(store storage.ObjectStore, retention int) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(nil, store, "badarts", retention, logger)
}

func TestFilenameRoundTrip(t *testing.T) {
	s := testService(newMemoryStore(), 3)
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)

	name := s.Filename(at)
	if name != "badarts_backup_20250309_140507.db" {
		t.Fatalf("Filename() = %q", name)
	}
	if !s.ValidFilename(name) {
		t.Errorf("ValidFilename(%q) = false", name)
	}
	if got := s.createdAt(name, time.Time{}); !got.Equal(at) {
		t.Errorf("createdAt() = %v, want %v", got, at)
	}
}

func TestValidFilenameRejects(t *testing.T) {
	s := testService(newMemoryStore(), 3)
	for _, name := range []string{
		"",
		"../badarts_backup_20250309_140507.db",
		"other_backup_20250309_140507.db",
		"badarts_backup_2025039_140507.db",
		"badarts_backup_20250309_140507.sql",
		"badarts_backup_20250309_140507.db/x",
	} {
		if s.ValidFilename(name) {
			t.Errorf("ValidFilename(%q) = true", name)
		}
	}
}

func TestExpired(t *testing.T) {
	backups := []Info{{Filename: "c"}, {Filename: "b"}, {Filename: "a"}}

	if got := Expired(backups, 5); got != nil {
		t.Errorf("Expired(keep=5) = %v", got)
	}
	got := Expired(backups, 1)
	if len(got) != 2 || got[0].Filename != "b" || got[1].Filename != "a" {
		t.Errorf("Expired(keep=1) = %v", got)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store := newMemoryStore()
	for _, name := range []string{
		"badarts_backup_20250101_000000.db",
		"badarts_backup_20250102_000000.db",
		"badarts_backup_20250103_000000.db",
		"notes.txt",
	} {
		store.objects[keyPrefix+name] = []byte("x")
	}
	s := testService(store, 2)

	deleted, err := s.prune(context.Background())
	if err != nil {
		t.Fatalf("prune() error = %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "badarts_backup_20250101_000000.db" {
		t.Fatalf("deleted = %v", deleted)
	}
	if _, ok := store.objects[keyPrefix+"notes.txt"]; !ok {
		t.Error("unrelated object was removed")
	}

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Filename != "badarts_backup_20250103_000000.db" {
		t.Errorf("List() = %+v", list)
	}
}

func TestOpenAndDelete(t *testing.T) {
	store := newMemoryStore()
	s := testService(store, 2)
	name := "badarts_backup_20250101_000000.db"
	store.objects[keyPrefix+name] = []byte("snapshot")

	if _, err := s.Open(context.Background(), "../etc/passwd"); !errors.Is(err, ErrInvalidFilename) {
		t.Errorf("Open(invalid) error = %v", err)
	}
	if _, err := s.Open(context.Background(), "badarts_backup_20990101_000000.db"); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Open(missing) error = %v", err)
	}

	body, err := s.Open(context.Background(), name)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()
	if string(data) != "snapshot" {
		t.Errorf("content = %q", data)
	}

	if err := s.Delete(context.Background(), name); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.objects) != 0 {
		t.Errorf("objects left = %v", store.objects)
	}
}
