package domain

import (
	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// StageTransition is the result of recording the configured migration stage.
// From is empty the first time a stage is recorded.
type StageTransition struct {
	From cryptoDomain.MigrationStage
	To   cryptoDomain.MigrationStage
}

// Changed reports whether the recorded stage moved.
func (t StageTransition) Changed() bool {
	return t.From != t.To
}
