package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/config"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector/bridge"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector/sim"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/theme"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/tui"
)

// defaultWatchWidth is used when stdout has no size.
const defaultWatchWidth = 80

// session is a running connector and mirror pair.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	conn     connector.Connector
	mirror   *mirror.Mirror
	terminal *theme.Terminal
	closers  []func()
}

// close releases everything in reverse order of acquisition.
func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func runInteractive(ctx context.Context, flags globalFlags) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return runWatch(ctx, flags)
	}

	s, err := openSession(ctx, flags, false)
	if err != nil {
		return err
	}
	defer s.close()

	model := tui.New(ctx, s.mirror, tui.Options{
		Format:             s.cfg.UI.BlockFormat,
		Blocks:             config.LayoutPreset(s.cfg.UI.Layout),
		Mouse:              s.cfg.UI.Mouse,
		ShowProjectWarning: s.cfg.ProjectID == config.DefaultProjectID,
		Logger:             s.logger,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if s.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

func runWatch(ctx context.Context, flags globalFlags) error {
	s, err := openSession(ctx, flags, true)
	if err != nil {
		return err
	}
	defer s.close()

	width := defaultWatchWidth
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		width = w
	}
	return tui.Watch(ctx, s.mirror, os.Stdout, tui.WatchOptions{
		Format: s.cfg.UI.BlockFormat,
		Width:  width,
		Blocks: config.LayoutPreset(s.cfg.UI.Layout),
	})
}

func loadConfig(flags globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flags.connector != "" {
		cfg.Connector.Kind = flags.connector
	}
	if flags.bridgeURL != "" {
		cfg.Connector.Bridge.URL = flags.bridgeURL
	}
	if flags.projectID != "" {
		cfg.ProjectID = flags.projectID
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openSession loads configuration, sets up logging and the palettes, builds
// the connector and starts a mirror over it.
func openSession(ctx context.Context, flags globalFlags, logToStderr bool) (*session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}

	logger, closeLog, err := newLogger(cfg, flags.verbose, logToStderr)
	if err != nil {
		return nil, err
	}
	s.logger = logger
	s.closers = append(s.closers, closeLog)
	slog.SetDefault(logger)

	if err := loadPalettes(cfg.Theme); err != nil {
		s.close()
		return nil, err
	}
	s.terminal = theme.NewTerminal(os.Stdout, cfg.Theme.SetBackground && !logToStderr)
	s.closers = append(s.closers, s.terminal.Restore)
	initial := connector.ThemeMode(cfg.Theme.Mode)
	s.terminal.ApplyTheme(initial)

	opts, err := cfg.ConnectorOptions()
	if err != nil {
		s.close()
		return nil, err
	}
	conn, closeConn, err := newConnector(ctx, cfg, opts, logger)
	if err != nil {
		s.close()
		return nil, err
	}
	s.conn = conn
	s.closers = append(s.closers, closeConn)

	target, err := cfg.SwitchTarget()
	if err != nil {
		s.close()
		return nil, err
	}
	s.mirror = mirror.New(conn,
		mirror.WithLogger(logger.With("component", "mirror")),
		mirror.WithAmbient(s.terminal),
		mirror.WithSignMessage(cfg.AppKit.SignMessage),
		mirror.WithSwitchTarget(target),
		mirror.WithInitialTheme(initial),
	)
	s.mirror.Start()
	s.closers = append(s.closers, s.mirror.Close)

	logger.Info("session started",
		"connector", cfg.Connector.Kind,
		"networks", len(opts.Networks),
		"switch_target", target.Name,
	)
	return s, nil
}

func newConnector(ctx context.Context, cfg *config.Config, opts connector.Options, logger *slog.Logger) (connector.Connector, func(), error) {
	switch cfg.Connector.Kind {
	case config.ConnectorBridge:
		c, err := bridge.Dial(ctx, bridge.Config{
			URL:     cfg.Connector.Bridge.URL,
			Timeout: cfg.Connector.Bridge.Timeout.OrDefault(0),
			Logger:  logger.With("component", "bridge"),
		}, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to bridge: %w", err)
		}
		return c, func() { _ = c.Close() }, nil

	default:
		simOpts := []sim.Option{
			sim.WithLogger(logger.With("component", "sim")),
			sim.WithThemeDelay(cfg.Connector.Sim.ThemeDelay.OrDefault(0)),
		}
		if seed := cfg.Connector.Sim.Seed; seed != "" {
			simOpts = append(simOpts, sim.WithSeed([]byte(seed)))
		}
		if cfg.Connector.Sim.RejectSign {
			simOpts = append(simOpts, sim.WithSignRejection(func(connector.SignMessageRequest) error {
				return sim.ErrUserRejected
			}))
		}
		if cfg.Connector.Sim.NoProvider {
			simOpts = append(simOpts, sim.WithoutProvider())
		}
		c, err := sim.New(opts, simOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("start simulated wallet: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	}
}

// newLogger opens the log file. The interactive interface owns the terminal,
// so stderr is only added in watch mode.
func newLogger(cfg *config.Config, verbose, toStderr bool) (*slog.Logger, func(), error) {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}

	var (
		writers []io.Writer
		closer  = func() {}
	)
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = func() { _ = f.Close() }
	}
	if toStderr {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer = io.Discard
	if len(writers) > 0 {
		w = io.MultiWriter(writers...)
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// loadPalettes replaces the built-in light and dark palettes with the
// configured TOML files.
func loadPalettes(cfg config.ThemeConfig) error {
	for mode, path := range map[connector.ThemeMode]string{
		connector.ThemeLight: cfg.LightFile,
		connector.ThemeDark:  cfg.DarkFile,
	} {
		if path == "" {
			continue
		}
		t, err := theme.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load %s palette: %w", mode, err)
		}
		t.Name = string(mode)
		t.Mode = mode
		theme.Register(t)
	}
	return nil
}
