package config

import (
	"fmt"
	"os"
)

func Template() string {
	return serverTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(serverTemplate), 0o600)
}

const serverTemplate = `# Announced in the first line written to stdout.
name = "ctagd"
version = "0.1.0"

log_level = "info"

# 0 disables a limit.
max_line_bytes = 131072
max_payload_bytes = 0

# Serve /metrics and /health here when set.
metrics_addr = ""

lexical_fallback = true
disabled_languages = []
`
