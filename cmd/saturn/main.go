// Command saturn drives a particle scene from hand gestures seen by a camera
// or sent by a browser-side detector.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/saturn/internal/app"
	"github.com/ayusman/saturn/internal/capture"
	"github.com/ayusman/saturn/internal/config"
	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/plugin"
	"github.com/ayusman/saturn/internal/server"
	"github.com/ayusman/saturn/internal/store"
	"github.com/ayusman/saturn/internal/tray"
)

const (
	version           = "0.3.0"
	defaultConfigPath = "~/.saturn/config.yaml"
	hookConcurrency   = 4
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath    = flag.String("config", defaultConfigPath, "Path to YAML config file")
		addr          = flag.String("addr", "", "HTTP listen address (e.g. :8080)")
		staticDir     = flag.String("static-dir", "", "Directory of renderer static files")
		cameraEnabled = flag.Bool("camera", true, "Capture from the local camera")
		cameraDevice  = flag.Int("camera-device", 0, "Camera device index")
		renderFPS     = flag.Int("render-fps", 0, "Control loop tick rate in Hz")
		storePath     = flag.String("store", "", "SQLite session history path")
		pluginDir     = flag.String("plugins", "", "Hook plugin directory")
		trayEnabled   = flag.Bool("tray", false, "Show the system tray status menu")
		logLevel      = flag.String("log-level", "", "Log level: error, warn, info, debug")
		showVersion   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("saturn v%s\n", version)
		return nil
	}

	// Only flags given on the command line override the file.
	var (
		ov             config.FlagOverrides
		configRequired bool
	)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			configRequired = true
		case "addr":
			ov.Addr = addr
		case "static-dir":
			ov.StaticDir = staticDir
		case "camera":
			ov.CameraEnabled = cameraEnabled
		case "camera-device":
			ov.CameraDevice = cameraDevice
		case "render-fps":
			ov.RenderFPS = renderFPS
		case "store":
			ov.StorePath = storePath
		case "plugins":
			ov.PluginDir = pluginDir
		case "tray":
			ov.TrayEnabled = trayEnabled
		case "log-level":
			ov.LogLevel = logLevel
		}
	})

	cfg, err := loadConfig(*configPath, configRequired)
	if err != nil {
		return err
	}
	ov.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := config.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := config.NewLogger(level, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("starting saturn", "version", version)

	var st *store.Store
	if cfg.Store.Enabled {
		st, err = store.New(config.ExpandPath(cfg.Store.Path))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		logger.Info("session history enabled", "path", st.Path())
	}

	hooks := newHooks(cfg, logger)

	appCfg := app.Config{
		Scene:        cfg.SceneConfig(),
		TickInterval: cfg.TickInterval(),
		Store:        st,
		Hooks:        hooks,
		Logger:       logger,
	}
	if cfg.Camera.Enabled {
		det, err := detector.NewMediaPipeDetector(cfg.DetectorConfig())
		if err != nil {
			logger.Warn("hand detector unavailable, camera disabled", "error", err)
		} else {
			appCfg.Camera = capture.NewCamera(cfg.CaptureConfig())
			appCfg.Detector = det
			appCfg.Preview = true
		}
	}
	a := app.New(appCfg)

	staticPath := config.ExpandPath(cfg.Server.StaticDir)
	if staticPath == "" {
		staticPath = findWebDir()
	}
	if staticPath != "" {
		logger.Info("serving static files", "dir", staticPath)
	}
	srv := server.New(server.Config{
		StaticDir: staticPath,
		App:       a,
		Store:     st,
		StateHz:   cfg.Server.StateHz,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, cfg.Server.Addr) })

	if cfg.Tray.Enabled {
		t := tray.New(a.Status)
		t.OnToggle(a.SetEnabled)
		t.OnOpen(func() { openBrowser(logger, localURL(cfg.Server.Addr)) })
		t.OnQuit(stop)

		done := make(chan error, 1)
		go func() {
			done <- g.Wait()
			t.Quit()
		}()
		t.Run(gctx)
		stop()
		err = <-done
	} else {
		err = g.Wait()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("saturn stopped")
	return nil
}

// loadConfig reads path. A missing file means defaults unless the path was
// given explicitly.
func loadConfig(path string, required bool) (config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !required {
		return config.DefaultConfig(), nil
	}
	return config.Config{}, err
}

func newHooks(cfg config.Config, logger *slog.Logger) *plugin.Dispatcher {
	dir := config.ExpandPath(cfg.Plugins.Dir)
	if dir == "" {
		return nil
	}
	m := plugin.NewManager(dir)
	if err := m.Discover(); err != nil {
		logger.Warn("some hooks failed to load", "dir", dir, "error", err)
	}
	plugins := m.List()
	if len(plugins) == 0 {
		logger.Debug("no hooks installed", "dir", dir)
		return nil
	}
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Manifest.Name
	}
	logger.Info("hooks loaded", "dir", dir, "hooks", strings.Join(names, ","))
	return plugin.NewDispatcher(m, plugin.NewExecutor(cfg.PluginTimeout()), hookConcurrency, logger)
}

// findWebDir searches for the renderer in common locations.
func findWebDir() string {
	candidates := []string{"web", "../web", "../../web"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".saturn", "web"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(logger *slog.Logger, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", "url", url, "error", err)
		return
	}
	go cmd.Wait()
}
