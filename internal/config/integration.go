package config

import "sync"

var (
	globalConfig   *Config      //nolint:gochecknoglobals // Process-wide config set once by the CLI.
	globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Guards globalConfig.
)

// SetGlobalConfig stores cfg as the process-wide configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the process-wide configuration, falling back to
// defaults when none was set.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = New()
	}
	return globalConfig
}

// ResetGlobalConfigForTest clears the process-wide configuration.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
