package shellconfig

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default returns a minimal but runnable configuration: every shell
// disabled, no allowed paths, injection protection on. Load falls back to
// this when no config file is present, matching the teacher's documented
// "config-load errors at startup fall back to defaults" behavior
// (spec.md §7).
func Default() *Config {
	return &Config{
		Global: GlobalConfig{
			Security: SecurityConfig{
				MaxCommandLength:          2000,
				CommandTimeoutSeconds:     30,
				EnableInjectionProtection: true,
				RestrictWorkingDirectory:  true,
			},
			Restrictions: RestrictionsConfig{
				BlockedCommands:  []string{},
				BlockedArguments: []string{},
				BlockedOperators: []string{"&", "|", ";", "`"},
			},
			Paths: PathsConfig{AllowedPaths: []string{}},
		},
		Shells: map[string]*ShellConfig{
			"cmd":        {Enabled: false, Executable: ExecutableConfig{Command: "cmd.exe", Args: []string{"/c"}}},
			"powershell": {Enabled: false, Executable: ExecutableConfig{Command: "powershell.exe", Args: []string{"-Command"}}},
			"gitbash":    {Enabled: false, Executable: ExecutableConfig{Command: "bash.exe", Args: []string{"-c"}}},
			"wsl":        {Enabled: false, Executable: ExecutableConfig{Command: "wsl.exe", Args: []string{"-e"}}},
		},
	}
}

// Load reads and JSON-decodes the configuration file at path. Schema
// validation beyond basic JSON structure is explicitly out of scope
// (spec.md §1): fields absent from the file keep their Default() values,
// and a field of the wrong JSON type makes Load return an error. A
// missing file is not an error — Default() is returned instead, since the
// server should still start against a safe, fully-disabled baseline.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
