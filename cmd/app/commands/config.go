package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/qrsecrets/internal/config"
	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	cryptoService "github.com/allisson/qrsecrets/internal/crypto/service"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

// RunValidateConfig validates cfg, builds the crypto provider it selects and prints
// the resulting provider and migration stage. Nothing is read from or written to the keyring.
func RunValidateConfig(cfg *config.Config, logger *slog.Logger, writer io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cryptoCfg, err := cfg.CryptoConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := cryptoService.NewProvider(cryptoCfg)
	if err != nil {
		return fmt.Errorf("failed to build crypto provider: %w", err)
	}

	stage := cryptoDomain.StageOf(cryptoCfg)
	logger.Info("configuration is valid",
		slog.String("provider", provider.Name()),
		slog.String("stage", string(stage)),
	)

	_, _ = fmt.Fprintf(writer, "provider: %s\n", provider.Name())
	_, _ = fmt.Fprintf(writer, "quantum_resistant: %t\n", provider.IsQuantumResistant())
	_, _ = fmt.Fprintf(writer, "stage: %s\n", stage)
	_, _ = fmt.Fprintf(writer, "keyring: %s\n", cfg.KeyringBackend)
	return nil
}

// RunStage prints the recorded migration stage and, when it moved, the previous one.
func RunStage(transition secretsDomain.StageTransition, writer io.Writer) error {
	switch {
	case transition.From == "":
		_, _ = fmt.Fprintf(writer, "stage: %s (first recorded)\n", transition.To)
	case transition.Changed():
		_, _ = fmt.Fprintf(writer, "stage: %s (previous: %s)\n", transition.To, transition.From)
	default:
		_, _ = fmt.Fprintf(writer, "stage: %s\n", transition.To)
	}
	return nil
}

// RequirePersistentKeyring rejects keyrings that are lost when the command exits.
func RequirePersistentKeyring(command string, cfg *config.Config) error {
	if cfg.UsesDatabase() {
		return nil
	}
	return fmt.Errorf(
		"%s requires KEYRING_BACKEND=%s or %s, got %q",
		command, config.KeyringPostgres, config.KeyringMySQL, cfg.KeyringBackend,
	)
}
