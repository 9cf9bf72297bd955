package domain

// MigrationStage is a step of the classical to quantum-resistant migration.
// Stages only change through operator-driven configuration changes.
type MigrationStage string

const (
	// StageClassicalOnly stores secrets under the classical provider only.
	StageClassicalOnly MigrationStage = "classical_only"
	// StageDualStorage stores a hybrid and a classical copy and cross-checks them on read.
	StageDualStorage MigrationStage = "dual_storage"
	// StageHybridVerified still writes both copies but only trusts the post-quantum path.
	StageHybridVerified MigrationStage = "hybrid_verified"
	// StagePureQuantumResistant stores a single quantum-resistant copy.
	StagePureQuantumResistant MigrationStage = "pure_quantum_resistant"
)

var stageRank = map[MigrationStage]int{
	StageClassicalOnly:        0,
	StageDualStorage:          1,
	StageHybridVerified:       2,
	StagePureQuantumResistant: 3,
}

// StageOf derives the migration stage a configuration puts the system in.
func StageOf(c CryptoConfig) MigrationStage {
	switch {
	case c.Mode == ModeClassical:
		return StageClassicalOnly
	case c.EnableDualStorage && c.VerifyClassical:
		return StageDualStorage
	case c.Mode == ModeQuantumResistant && !c.EnableDualStorage:
		return StagePureQuantumResistant
	default:
		return StageHybridVerified
	}
}

// IsValid reports whether s is a known stage.
func (s MigrationStage) IsValid() bool {
	_, ok := stageRank[s]
	return ok
}

// Before reports whether s is an earlier stage than other.
func (s MigrationStage) Before(other MigrationStage) bool {
	return stageRank[s] < stageRank[other]
}

// Skips reports whether moving from s to next jumps over at least one stage.
func (s MigrationStage) Skips(next MigrationStage) bool {
	return stageRank[next]-stageRank[s] > 1
}
