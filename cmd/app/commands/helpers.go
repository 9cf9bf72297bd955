// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/qrsecrets/internal/validation"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// decodeValue returns the raw bytes of a secret value given on the command line.
func decodeValue(value string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(value), nil
	}
	if err := validation.Validate(value, customValidation.Base64Value); err != nil {
		return nil, fmt.Errorf("invalid --value: %w", customValidation.WrapValidationError(err))
	}
	return base64.StdEncoding.DecodeString(value)
}
