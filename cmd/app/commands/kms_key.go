package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoService "github.com/allisson/qrsecrets/internal/crypto/service"
)

var kmsProbe = []byte("qrsecrets/kms-probe")

// RunCreateKMSKey generates a local base64key:// KMS key and checks that it seals and
// unseals before printing it as a KMS_KEY_URI assignment.
//
// Local keys are for development and tests. Production deployments point KMS_KEY_URI at a
// cloud KMS (gcpkms://, awskms://, azurekeyvault://, hashivault://).
func RunCreateKMSKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
) error {
	uri, err := cryptoService.NewLocalKeyURI()
	if err != nil {
		return fmt.Errorf("failed to generate KMS key: %w", err)
	}

	keeper, err := kmsService.OpenKeeper(ctx, uri)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	sealed, err := keeper.Encrypt(ctx, kmsProbe)
	if err != nil {
		return fmt.Errorf("failed to seal with KMS key: %w", err)
	}
	opened, err := keeper.Decrypt(ctx, sealed)
	if err != nil {
		return fmt.Errorf("failed to unseal with KMS key: %w", err)
	}
	if !bytes.Equal(opened, kmsProbe) {
		return fmt.Errorf("KMS key round-trip returned different data")
	}

	logger.Info("local KMS key created")

	_, _ = fmt.Fprintln(writer, "# Local KMS key: for development and tests only")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", uri)
	return nil
}
