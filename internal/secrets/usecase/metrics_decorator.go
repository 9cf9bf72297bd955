package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	"github.com/allisson/qrsecrets/internal/metrics"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

// secretManagerWithMetrics decorates SecretManager with metrics instrumentation.
type secretManagerWithMetrics struct {
	next    SecretManager
	metrics metrics.BusinessMetrics
}

// NewSecretManagerWithMetrics wraps a SecretManager with metrics recording.
func NewSecretManagerWithMetrics(manager SecretManager, m metrics.BusinessMetrics) SecretManager {
	return &secretManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

// StoreSecretQR records metrics for secret store operations.
func (s *secretManagerWithMetrics) StoreSecretQR(ctx context.Context, name string, value []byte) error {
	start := time.Now()
	err := s.next.StoreSecretQR(ctx, name, value)
	s.record(ctx, "secret_store_qr", start, err)
	return err
}

// GetSecretQR records metrics for secret retrieval operations.
func (s *secretManagerWithMetrics) GetSecretQR(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.GetSecretQR(ctx, name)
	s.record(ctx, "secret_get_qr", start, err)
	return value, err
}

// MigrateSecret records metrics for secret migration operations.
func (s *secretManagerWithMetrics) MigrateSecret(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.MigrateSecret(ctx, name)
	s.record(ctx, "secret_migrate", start, err)
	return err
}

// MigrateSecrets records one batch operation. Individual secrets are not counted.
func (s *secretManagerWithMetrics) MigrateSecrets(ctx context.Context, names []string) (int, error) {
	start := time.Now()
	n, err := s.next.MigrateSecrets(ctx, names)
	s.record(ctx, "secret_migrate_batch", start, err)
	return n, err
}

// DeleteSecret records metrics for secret deletion operations.
func (s *secretManagerWithMetrics) DeleteSecret(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.DeleteSecret(ctx, name)
	s.record(ctx, "secret_delete", start, err)
	return err
}

func (s *secretManagerWithMetrics) Stage() cryptoDomain.MigrationStage {
	return s.next.Stage()
}

func (s *secretManagerWithMetrics) RecordStage(ctx context.Context) (secretsDomain.StageTransition, error) {
	return s.next.RecordStage(ctx)
}

func (s *secretManagerWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, s.metrics, "secrets", operation, start, err)
}
