package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shellgate/shellgate/internal/shellconfig"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and resolve the configuration, printing the enabled shells and any load error, without serving",
		Run: func(cmd *cobra.Command, args []string) {
			runValidate()
		},
	}
}

func runValidate() {
	cfgPath := resolveConfigPath()
	cfg, err := shellconfig.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v (falling back to defaults)\n", cfgPath, err)
		cfg = shellconfig.Default()
	}

	resolved := shellconfig.ResolveAll(cfg)
	report := struct {
		ConfigPath    string   `json:"configPath"`
		EnabledShells []string `json:"enabledShells"`
	}{
		ConfigPath:    cfgPath,
		EnabledShells: shellconfig.EnabledShellNames(cfg),
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to render report:", err)
		os.Exit(1)
	}
	fmt.Println(string(b))

	if len(resolved) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no shells are enabled")
	}
}
