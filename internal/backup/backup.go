// Package backup writes encrypted snapshots of the family state to disk and
// optionally mirrors them to S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/vinnybad/choremander/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup manager configuration.
type Config struct {
	Dir           string
	Passphrase    string
	Interval      time.Duration
	RetentionDays int
	S3            S3Config
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
}

const filenameSuffix = ".json.enc"

// Manager produces encrypted exports of the store on a schedule and on
// demand. A backup is the full JSON document encrypted with a key derived
// from the configured passphrase.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	status Status

	store  *store.Store
	client s3Client
	logger *slog.Logger
}

// NewManager creates a backup manager. Backups are disabled until both a
// target directory and a passphrase are configured.
func NewManager(cfg Config, st *store.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:    cfg,
		store:  st,
		logger: logger,
		status: Status{State: StateDisabled},
	}
	if cfg.Dir != "" && cfg.Passphrase != "" {
		m.status.State = StateIdle
	}
	if cfg.S3.Bucket != "" && cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		m.client = newS3Client(cfg.S3)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether backups are configured.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.State != StateDisabled
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	if s.LastBackup == nil {
		s.LastBackup = m.status.LastBackup
	}
	m.status = s
	m.mu.Unlock()
}

// Run backs up on the configured interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	if !m.Enabled() {
		return
	}
	interval := m.cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.RunNow(ctx); err != nil {
				m.logger.Error("scheduled backup failed", "error", err)
			}
			if err := m.Cleanup(ctx); err != nil {
				m.logger.Error("backup cleanup failed", "error", err)
			}
		}
	}
}

// RunNow writes one encrypted snapshot and returns its filename.
func (m *Manager) RunNow(ctx context.Context) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("backups not configured")
	}
	m.setStatus(Status{State: StateRunning})

	doc, err := m.store.ExportJSON()
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return "", fmt.Errorf("export state: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return "", err
	}
	encrypted, err := Encrypt(doc, m.cfg.Passphrase, salt)
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return "", err
	}

	if err := os.MkdirAll(m.cfg.Dir, 0700); err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	filename := fmt.Sprintf("backup-%s%s", time.Now().UTC().Format("2006-01-02T150405Z"), filenameSuffix)
	path := filepath.Join(m.cfg.Dir, filename)
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error()})
		return "", fmt.Errorf("write backup: %w", err)
	}

	if m.client != nil {
		if err := m.upload(ctx, filename, encrypted); err != nil {
			m.setStatus(Status{State: StateError, Error: err.Error()})
			return "", err
		}
	}

	now := time.Now().UTC()
	m.setStatus(Status{State: StateIdle, LastBackup: &now})
	m.logger.Info("backup written", "file", filename, "bytes", len(encrypted))
	return filename, nil
}

// upload mirrors a snapshot to the configured bucket, retrying transient
// failures with exponential backoff.
func (m *Manager) upload(ctx context.Context, key string, data []byte) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(m.cfg.S3.Bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if err != nil {
			return retry.RetryableError(fmt.Errorf("upload to s3: %w", err))
		}
		return nil
	})
}

// List returns local backup filenames, newest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), filenameSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Restore decrypts a local backup and replaces the live state with it.
func (m *Manager) Restore(ctx context.Context, filename, passphrase string) error {
	data, err := os.ReadFile(filepath.Join(m.cfg.Dir, filepath.Base(filename)))
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	doc, err := Decrypt(data, passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}

	if err := m.store.ImportJSON(ctx, doc); err != nil {
		return fmt.Errorf("import state: %w", err)
	}

	m.logger.Info("backup restored", "file", filename)
	return nil
}

// Cleanup deletes local snapshots older than the retention period and their
// mirrored S3 objects.
func (m *Manager) Cleanup(ctx context.Context) error {
	retention := m.cfg.RetentionDays
	if retention <= 0 {
		retention = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retention)

	names, err := m.List()
	if err != nil {
		return err
	}

	for _, name := range names {
		info, err := os.Stat(filepath.Join(m.cfg.Dir, name))
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.cfg.Dir, name)); err != nil {
			m.logger.Warn("remove old backup", "file", name, "error", err)
			continue
		}
		if m.client != nil {
			if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(m.cfg.S3.Bucket),
				Key:    aws.String(name),
			}); err != nil {
				m.logger.Warn("delete mirrored backup", "key", name, "error", err)
			}
		}
	}
	return nil
}
