package filestorage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SeakMengs/AutoQR/internal/util"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("document session not found")
	ErrInvalidToken    = errors.New("invalid document token")
	ErrUploadTooLarge  = errors.New("uploaded file is too large")
	ErrOutputNotFound  = errors.New("no generated document yet, apply a QR code first")
)

const (
	inputFileName  = "input.pdf"
	outputFileName = "output.pdf"
	previewDirName = "previews"
)

// Store keeps one directory per upload session under root. Operations on
// the same token are serialized through Lock.
type Store struct {
	root   string
	logger *zap.SugaredLogger
	mirror *MinioMirror

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is dropped from Store.locks once refs reaches zero.
type sessionLock struct {
	sync.Mutex
	refs int
}

func NewStore(root string, logger *zap.SugaredLogger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{root: root, logger: logger, locks: make(map[string]*sessionLock)}, nil
}

// WithMirror uploads generated documents to m as well.
func (s *Store) WithMirror(m *MinioMirror) *Store {
	s.mirror = m
	return s
}

func (s *Store) Root() string {
	return s.root
}

// Lock acquires the session lock of token and returns its release func.
// Malformed tokens are rejected before any state is kept for them.
func (s *Store) Lock(token string) (func(), error) {
	if !util.IsSessionToken(token) {
		return nil, ErrInvalidToken
	}

	s.mu.Lock()
	l, ok := s.locks[token]
	if !ok {
		l = &sessionLock{}
		s.locks[token] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, token)
		}
		s.mu.Unlock()
	}, nil
}

// lockCount reports how many sessions currently have lock state.
func (s *Store) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func (s *Store) dir(token string) (string, error) {
	if !util.IsSessionToken(token) {
		return "", ErrInvalidToken
	}
	return filepath.Join(s.root, token), nil
}

// Create stores the upload read from r in a new session and returns its
// token. At most maxBytes are accepted when maxBytes is positive.
func (s *Store) Create(r io.Reader, maxBytes int64) (string, error) {
	token := util.NewSessionToken()
	dir, err := s.dir(token)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, previewDirName), 0o755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, inputFileName))
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	if maxBytes > 0 && n > maxBytes {
		os.RemoveAll(dir)
		return "", ErrUploadTooLarge
	}

	s.logger.Debugw("Session created", "token", token, "bytes", n)
	return token, nil
}

// InputPath returns the uploaded PDF of token, touching the session.
func (s *Store) InputPath(token string) (string, error) {
	dir, err := s.dir(token)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, inputFileName)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	s.touch(dir)
	return p, nil
}

// OutputPath is where the stamped document of token is written.
func (s *Store) OutputPath(token string) (string, error) {
	if _, err := s.InputPath(token); err != nil {
		return "", err
	}
	dir, _ := s.dir(token)
	return filepath.Join(dir, outputFileName), nil
}

// ExistingOutputPath is OutputPath for a document that was already generated.
func (s *Store) ExistingOutputPath(token string) (string, error) {
	p, err := s.OutputPath(token)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrOutputNotFound
		}
		return "", err
	}
	return p, nil
}

// PreviewPath returns the cache file for a preview identified by key and
// whether it was rendered before.
func (s *Store) PreviewPath(token, key string) (string, bool, error) {
	if _, err := s.InputPath(token); err != nil {
		return "", false, err
	}
	dir, _ := s.dir(token)

	sum := sha256.Sum256([]byte(key))
	p := filepath.Join(dir, previewDirName, hex.EncodeToString(sum[:12])+".png")
	_, err := os.Stat(p)
	return p, err == nil, nil
}

// Mirror uploads the generated document of token to the configured mirror.
// It is a no-op without a mirror.
func (s *Store) Mirror(ctx context.Context, token string) error {
	if s.mirror == nil {
		return nil
	}
	p, err := s.ExistingOutputPath(token)
	if err != nil {
		return err
	}
	return s.mirror.Upload(ctx, util.OutputFileName(token), p)
}

func (s *Store) Delete(token string) error {
	dir, err := s.dir(token)
	if err != nil {
		return err
	}

	unlock, err := s.Lock(token)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", token, err)
	}
	return nil
}

// PurgeOlderThan removes every session not used for age and returns how
// many were removed.
func (s *Store) PurgeOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !util.IsSessionToken(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Delete(e.Name()); err != nil {
			s.logger.Warnw("Failed to purge session", "token", e.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Infow("Purged sessions", "count", removed, "olderThan", age)
	}
	return removed, nil
}

// StartJanitor purges sessions older than ttl every interval until ctx is
// done.
func (s *Store) StartJanitor(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.PurgeOlderThan(ttl); err != nil {
					s.logger.Errorw("Session cleanup failed", "error", err)
				}
			}
		}
	}()
}

func (s *Store) touch(dir string) {
	now := time.Now()
	if err := os.Chtimes(dir, now, now); err != nil {
		s.logger.Debugw("Failed to touch session", "dir", dir, "error", err)
	}
}
