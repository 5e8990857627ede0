package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/badarts/club-backend/storage"
)

const (
	keyPrefix   = "backups/"
	contentType = "application/vnd.sqlite3"
	timeLayout  = "20060102_150405"
)

var (
	ErrInvalidFilename = errors.New("invalid backup filename")
	ErrBackupNotFound  = errors.New("backup not found")
)

// Info describes one stored backup.
type Info struct {
	Filename  string    `json:"filename"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is returned by Run.
type Result struct {
	Filename string   `json:"filename"`
	Key      string   `json:"key"`
	Rows     int      `json:"rows"`
	Deleted  []string `json:"deleted"`
}

type Service struct {
	exporter  *Exporter
	store     storage.ObjectStore
	appName   string
	retention int
	pattern   *regexp.Regexp
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(exporter *Exporter, store storage.ObjectStore, appName string, retention int, logger *slog.Logger) *Service {
	if retention < 1 {
		retention = 1
	}
	return &Service{
		exporter:  exporter,
		store:     store,
		appName:   appName,
		retention: retention,
		pattern:   regexp.MustCompile(`^` + regexp.QuoteMeta(appName) + `_backup_\d{8}_\d{6}\.db$`),
		logger:    logger,
		now:       time.Now,
	}
}

// Filename builds the backup name for t.
func (s *Service) Filename(t time.Time) string {
	return fmt.Sprintf("%s_backup_%s.db", s.appName, t.UTC().Format(timeLayout))
}

// ValidFilename reports whether name is a backup produced by this service.
func (s *Service) ValidFilename(name string) bool {
	return s.pattern.MatchString(name)
}

// Run exports the database, uploads the snapshot and prunes old snapshots.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	filename := s.Filename(s.now())

	dir, err := os.MkdirTemp("", "backup-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filename)
	rows, err := s.exporter.Export(ctx, path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	key := keyPrefix + filename
	if _, err := s.store.Upload(ctx, key, contentType, f); err != nil {
		return nil, err
	}
	s.logger.Info("backup uploaded", slog.String("key", key), slog.Int("rows", rows))

	deleted, err := s.prune(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Filename: filename, Key: key, Rows: rows, Deleted: deleted}, nil
}

// List returns the stored backups, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	objects, err := s.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	backups := make([]Info, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, keyPrefix)
		if !s.ValidFilename(name) {
			continue
		}
		backups = append(backups, Info{Filename: name, Key: obj.Key, Size: obj.Size, CreatedAt: s.createdAt(name, obj.LastModified)})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Filename > backups[j].Filename })
	return backups, nil
}

// Open returns the content of a backup. The caller closes it.
func (s *Service) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	if !s.ValidFilename(filename) {
		return nil, ErrInvalidFilename
	}
	body, err := s.store.Get(ctx, keyPrefix+filename)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrBackupNotFound
	}
	return body, err
}

func (s *Service) Delete(ctx context.Context, filename string) error {
	if !s.ValidFilename(filename) {
		return ErrInvalidFilename
	}
	return s.store.Delete(ctx, keyPrefix+filename)
}

func (s *Service) prune(ctx context.Context) ([]string, error) {
	backups, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	expired := Expired(backups, s.retention)
	deleted := make([]string, 0, len(expired))
	for _, b := range expired {
		if err := s.store.Delete(ctx, b.Key); err != nil {
			return deleted, err
		}
		s.logger.Info("old backup deleted", slog.String("key", b.Key))
		deleted = append(deleted, b.Filename)
	}
	return deleted, nil
}

func (s *Service) createdAt(filename string, fallback time.Time) time.Time {
	stamp := strings.TrimSuffix(strings.TrimPrefix(filename, s.appName+"_backup_"), ".db")
	if t, err := time.Parse(timeLayout, stamp); err == nil {
		return t
	}
	return fallback
}

// Expired returns the backups beyond the newest keep entries. backups must be
// ordered newest first.
func Expired(backups []Info, keep int) []Info {
	if keep < 0 {
		keep = 0
	}
	if len(backups) <= keep {
		return nil
	}
	return backups[keep:]
}

// Schedule runs the backup once immediately and then every interval until ctx
// is cancelled.
func (s *Service) Schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("backup scheduler started", slog.Duration("interval", interval))

	if _, err := s.Run(ctx); err != nil {
		s.logger.Error("backup scheduler: initial run failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("backup scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.logger.Error("backup scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}
}
