package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shellgate/shellgate/internal/apperr"
	"github.com/shellgate/shellgate/internal/execsup"
	"github.com/shellgate/shellgate/internal/pathnorm"
	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/validate"
)

// Dispatcher routes the five recognized tools (spec.md §4.7) to the
// validation engine, configuration resolver, and execution supervisor.
// contexts/supervisor are swapped atomically by Reload on a config-watch
// event; state.serverActiveCwd is untouched by a reload.
type Dispatcher struct {
	state  *ServerState
	logger *slog.Logger

	mu         sync.RWMutex
	contexts   map[string]*validate.Context
	supervisor *execsup.Supervisor
}

// NewDispatcher wires a Dispatcher over already-constructed server state,
// validation contexts, and an execution supervisor. A nil logger falls
// back to slog.Default().
func NewDispatcher(state *ServerState, contexts map[string]*validate.Context, supervisor *execsup.Supervisor, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{state: state, logger: logger, contexts: contexts, supervisor: supervisor}
}

// Reload atomically replaces the validation contexts and execution
// supervisor in use, matching a config file hot-reload (spec.md's
// ambient fsnotify config watcher). In-flight requests keep using the
// contexts they already captured.
func (d *Dispatcher) Reload(contexts map[string]*validate.Context, supervisor *execsup.Supervisor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contexts = contexts
	d.supervisor = supervisor
}

func (d *Dispatcher) snapshot() (map[string]*validate.Context, *execsup.Supervisor) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.contexts, d.supervisor
}

// Dispatch routes tool by name. Unknown tool → MethodNotFound. Malformed
// arguments → InvalidParams. Both are returned as errors, same as every
// other rejection; the caller (mcpserver) decides how each error code maps
// onto the transport.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, args map[string]interface{}) (*Result, error) {
	switch tool {
	case "execute_command":
		return d.executeCommand(ctx, args)
	case "get_config":
		return d.getConfig()
	case "get_current_directory":
		return d.getCurrentDirectory()
	case "set_current_directory":
		return d.setCurrentDirectory(args)
	case "validate_directories":
		return d.validateDirectories(args)
	default:
		d.logger.Warn("dispatch.unknown_tool", "tool", tool)
		return nil, apperr.MethodNotFound(tool)
	}
}

func (d *Dispatcher) executeCommand(ctx context.Context, args map[string]interface{}) (*Result, error) {
	shell, _ := args["shell"].(string)
	command, _ := args["command"].(string)
	if shell == "" || command == "" {
		return nil, apperr.InvalidParams(`execute_command requires "shell" and "command"`)
	}
	workingDir, _ := args["workingDir"].(string)
	if workingDir == "" {
		workingDir = d.state.ActiveCwd()
	}

	_, supervisor := d.snapshot()
	result, err := supervisor.Execute(ctx, execsup.Request{Shell: shell, Command: command, WorkingDir: workingDir})
	if err != nil {
		return nil, err
	}

	text := result.Stdout
	if result.Stderr != "" {
		if text != "" {
			text += "\n"
		}
		text += "STDERR:\n" + result.Stderr
	}
	return &Result{
		Text: text,
		Metadata: map[string]interface{}{
			"exitCode":         result.ExitCode,
			"workingDirectory": result.WorkingDirectory,
		},
	}, nil
}

func (d *Dispatcher) getCurrentDirectory() (*Result, error) {
	return &Result{Text: d.state.ActiveCwd()}, nil
}

func (d *Dispatcher) setCurrentDirectory(args map[string]interface{}) (*Result, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return nil, apperr.InvalidParams(`set_current_directory requires "path"`)
	}
	gctx := globalContext(d.state.RawConfig(), path)
	if err := validate.ValidateWorkingDirectory(path, gctx); err != nil {
		return nil, err
	}
	normalized := pathnorm.Normalize(path)
	d.state.SetActiveCwd(normalized)
	return &Result{Text: fmt.Sprintf("Current directory changed to: %s", normalized)}, nil
}

func (d *Dispatcher) validateDirectories(args map[string]interface{}) (*Result, error) {
	rawDirs, ok := args["directories"].([]interface{})
	if !ok || len(rawDirs) == 0 {
		return nil, apperr.InvalidParams(`validate_directories requires a non-empty "directories" array`)
	}
	dirs := make([]string, 0, len(rawDirs))
	for _, v := range rawDirs {
		s, ok := v.(string)
		if !ok {
			return nil, apperr.InvalidParams("validate_directories: every entry in \"directories\" must be a string")
		}
		dirs = append(dirs, s)
	}

	contexts, _ := d.snapshot()
	var shellCtx *validate.Context
	if shellName, _ := args["shell"].(string); shellName != "" {
		vc, ok := contexts[shellName]
		if !ok {
			return nil, apperr.InvalidRequest(shellName, "unknown or disabled shell: "+shellName)
		}
		shellCtx = vc
	}

	var invalid []string
	for _, dir := range dirs {
		var verr error
		if shellCtx != nil {
			verr = validate.ValidateWorkingDirectory(dir, shellCtx)
		} else {
			verr = validate.ValidateWorkingDirectory(dir, globalContext(d.state.RawConfig(), dir))
		}
		if verr != nil {
			invalid = append(invalid, dir)
		}
	}
	if len(invalid) > 0 {
		return nil, apperr.InvalidRequest("", fmt.Sprintf("Directories outside allowed paths: %s", strings.Join(invalid, ", ")))
	}
	return &Result{Text: "All directories are valid"}, nil
}

// ShellSummary is the per-shell reporting view returned by get_config,
// narrower than ResolvedShellConfig: it carries the kind, executable,
// length and timeout limits, the working-directory restriction, allowed
// paths and blocked commands. It does not include blockedArguments,
// blockedOperators, enableInjectionProtection or wslConfig.
type ShellSummary struct {
	Kind                     string   `json:"kind"`
	ExecutableCommand        string   `json:"executableCommand"`
	MaxCommandLength         uint32   `json:"maxCommandLength"`
	CommandTimeoutSeconds    float64  `json:"commandTimeoutSeconds"`
	RestrictWorkingDirectory bool     `json:"restrictWorkingDirectory"`
	AllowedPaths             []string `json:"allowedPaths"`
	BlockedCommands          []string `json:"blockedCommands"`
}

func (d *Dispatcher) getConfig() (*Result, error) {
	contexts, _ := d.snapshot()
	summaries := make(map[string]ShellSummary, len(contexts))
	for name, vc := range contexts {
		cfg := vc.Config
		summaries[name] = ShellSummary{
			Kind:                     cfg.Kind.Name(),
			ExecutableCommand:        cfg.Executable.Command,
			MaxCommandLength:         cfg.Security.MaxCommandLength,
			CommandTimeoutSeconds:    cfg.Security.CommandTimeout.Seconds(),
			RestrictWorkingDirectory: cfg.Security.RestrictWorkingDirectory,
			AllowedPaths:             cfg.Paths.AllowedPaths,
			BlockedCommands:          cfg.Restrictions.BlockedCommands,
		}
	}

	payload := struct {
		Configuration  *shellconfig.Config     `json:"configuration"`
		ResolvedShells map[string]ShellSummary `json:"resolvedShells"`
	}{
		Configuration:  d.state.RawConfig(),
		ResolvedShells: summaries,
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, apperr.InternalExecError("", "failed to marshal configuration: "+err.Error())
	}
	return &Result{Text: string(b)}, nil
}
