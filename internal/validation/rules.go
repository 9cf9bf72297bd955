// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"net/url"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/qrsecrets/internal/errors"
)

const (
	// ReservedPrefix marks keyring entries owned by the secret manager itself.
	ReservedPrefix = "_qrsecrets/"
	// ClassicalSuffix is appended to a secret name for its classical dual-storage copy.
	ClassicalSuffix = ".classical"
	// MaxSecretNameLength matches the keyring_entries.name column with room for the suffix.
	MaxSecretNameLength = 512 - len(ClassicalSuffix)
)

// kmsSchemes lists the gocloud.dev/secrets drivers registered by the crypto service.
var kmsSchemes = map[string]bool{
	"base64key":     true,
	"gcpkms":        true,
	"awskms":        true,
	"azurekeyvault": true,
	"hashivault":    true,
}

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NotReserved rejects names in the manager's reserved namespace and names that would
// collide with a classical copy.
var NotReserved = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.HasPrefix(s, ReservedPrefix) && !strings.HasSuffix(s, ClassicalSuffix)
	},
	validation.NewError(
		"validation_reserved_name",
		"must not start with "+ReservedPrefix+" or end with "+ClassicalSuffix,
	),
)

// KMSKeyURI validates that a string is a URI for one of the supported KMS drivers.
var KMSKeyURI = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && kmsSchemes[u.Scheme]
	},
	validation.NewError(
		"validation_kms_key_uri",
		"must be a base64key://, gcpkms://, awskms://, azurekeyvault:// or hashivault:// URI",
	),
)

// Base64Value validates padded standard base64, the encoding of binary secret values
// given on the command line. Empty strings are left to Required.
var Base64Value = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)

// ValidateSecretName applies every rule a secret name must satisfy.
func ValidateSecretName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		NotBlank,
		NoWhitespace,
		validation.Length(1, MaxSecretNameLength),
		NotReserved,
	)
	return WrapValidationError(err)
}
