package config

import "github.com/rshade/listmembers/internal/logging"

// ToLoggingConfig converts the logging section for the logging package. A
// configured file switches output to that file.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
