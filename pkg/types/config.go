package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SyncStrategy controls when JSONL files are rewritten after a write.
	// Empty means SyncImmediate.
	SyncStrategy string `json:"sync,omitempty" yaml:"sync,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Sync strategies for the JSONL source of truth.
const (
	SyncImmediate = "immediate" // Rewrite affected files after every write.
	SyncOnClose   = "on_close"  // Queue rewrites until Detach.
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// knownSyncStrategies lists the sync strategies that Validate accepts.
var knownSyncStrategies = map[string]bool{
	"":            true,
	SyncImmediate: true,
	SyncOnClose:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownSyncStrategies[c.SyncStrategy] {
		return ErrSyncStrategyUnknown
	}
	return nil
}

// EffectiveSyncStrategy returns the configured strategy, defaulting to
// SyncImmediate.
func (c Config) EffectiveSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}
