package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	secretsUsecase "github.com/allisson/qrsecrets/internal/secrets/usecase"
)

// RunStoreSecret stores value under name with the configured provider. When isBase64 is
// set the value is decoded first, which allows binary secrets.
func RunStoreSecret(
	ctx context.Context,
	manager secretsUsecase.SecretManager,
	logger *slog.Logger,
	name, value string,
	isBase64 bool,
) error {
	plaintext, err := decodeValue(value, isBase64)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plaintext)

	if err := manager.StoreSecretQR(ctx, name, plaintext); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	logger.Info("secret stored",
		slog.String("name", name),
		slog.String("stage", string(manager.Stage())),
	)
	return nil
}

// RunGetSecret writes the plaintext of name followed by a newline. With isBase64 the
// plaintext is written base64-encoded.
func RunGetSecret(
	ctx context.Context,
	manager secretsUsecase.SecretManager,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	isBase64 bool,
) error {
	plaintext, err := manager.GetSecretQR(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get secret: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	logger.Debug("secret read", slog.String("name", name))

	if isBase64 {
		_, err = fmt.Fprintln(writer, base64.StdEncoding.EncodeToString(plaintext))
	} else {
		_, err = fmt.Fprintf(writer, "%s\n", plaintext)
	}
	if err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}
	return nil
}

// RunMigrateSecrets re-encrypts each named secret under the configured provider and
// prints the number migrated. It stops at the first failure.
func RunMigrateSecrets(
	ctx context.Context,
	manager secretsUsecase.SecretManager,
	logger *slog.Logger,
	writer io.Writer,
	names []string,
) error {
	if len(names) == 0 {
		return fmt.Errorf("at least one --name is required")
	}

	migrated, err := manager.MigrateSecrets(ctx, names)
	_, _ = fmt.Fprintf(writer, "migrated %d of %d secrets\n", migrated, len(names))
	if err != nil {
		return err
	}

	logger.Info("secrets migrated",
		slog.Int("count", migrated),
		slog.String("stage", string(manager.Stage())),
	)
	return nil
}

// RunDeleteSecret removes name and its classical copy.
func RunDeleteSecret(
	ctx context.Context,
	manager secretsUsecase.SecretManager,
	logger *slog.Logger,
	name string,
) error {
	if err := manager.DeleteSecret(ctx, name); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	logger.Info("secret deleted", slog.String("name", name))
	return nil
}
