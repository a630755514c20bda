// Package config loads the saturn YAML configuration.
//
// Defaults and validation live here so the rest of the program can assume a
// well-formed Config. Flags override individual fields after the file is read.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/saturn/internal/capture"
	"github.com/ayusman/saturn/internal/detector"
	"github.com/ayusman/saturn/internal/scene"
)

// Config is the top-level YAML configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Render   RenderConfig   `yaml:"render"`
	Control  ControlConfig  `yaml:"control"`
	Store    StoreConfig    `yaml:"store"`
	Plugins  PluginsConfig  `yaml:"plugins"`
	Tray     TrayConfig     `yaml:"tray"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir,omitempty"`
	// StateHz is the rate of frames pushed to state websocket clients.
	StateHz int `yaml:"state_hz"`
}

type CameraConfig struct {
	Enabled bool `yaml:"enabled"`
	Device  int  `yaml:"device"`
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
	FPS     int  `yaml:"fps"`
}

type DetectorConfig struct {
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
	ScriptPath             string  `yaml:"script_path,omitempty"`
}

type RenderConfig struct {
	// FPS is the render tick rate of the control loop.
	FPS          int     `yaml:"fps"`
	FullScale    float64 `yaml:"full_scale"`
	ReducedScale float64 `yaml:"reduced_scale"`
	FPSFloor     float64 `yaml:"fps_floor"`
	FPSWindowMS  int     `yaml:"fps_window_ms"`
}

type ControlConfig struct {
	IdleAfterMS int         `yaml:"idle_after_ms"`
	HyperMS     int         `yaml:"hyper_ms"`
	Gains       scene.Gains `yaml:"gains"`
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type PluginsConfig struct {
	Dir       string `yaml:"dir"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	sc := scene.DefaultConfig()
	dc := detector.DefaultConfig()
	cc := capture.DefaultConfig()

	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			StateHz: 30,
		},
		Camera: CameraConfig{
			Enabled: true,
			Device:  cc.DeviceID,
			Width:   cc.Width,
			Height:  cc.Height,
			FPS:     cc.FPS,
		},
		Detector: DetectorConfig{
			MaxHands:               dc.MaxHands,
			MinDetectionConfidence: dc.MinConfidence,
			MinTrackingConfidence:  dc.MinTrackingConf,
		},
		Render: RenderConfig{
			FPS:          60,
			FullScale:    sc.FullScale,
			ReducedScale: sc.ReducedScale,
			FPSFloor:     sc.FPSFloor,
			FPSWindowMS:  int(sc.FPSWindow / time.Millisecond),
		},
		Control: ControlConfig{
			IdleAfterMS: int(sc.IdleAfter / time.Millisecond),
			HyperMS:     int(sc.HyperDuration / time.Millisecond),
			Gains:       sc.Gains,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    "~/.saturn/saturn.db",
		},
		Plugins: PluginsConfig{
			Dir:       "~/.saturn/plugins",
			TimeoutMS: 5000,
		},
		Tray: TrayConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFile reads and parses a YAML config file on top of the defaults.
// Unknown fields are rejected.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides holds pointers set by command line flags. A nil pointer
// leaves the field alone; a non-nil one is applied even if it is a zero value.
type FlagOverrides struct {
	Addr      *string
	StaticDir *string

	CameraEnabled *bool
	CameraDevice  *int

	RenderFPS *int

	StorePath *string
	PluginDir *string

	TrayEnabled *bool
	LogLevel    *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
	}
	if o.StaticDir != nil {
		cfg.Server.StaticDir = *o.StaticDir
	}
	if o.CameraEnabled != nil {
		cfg.Camera.Enabled = *o.CameraEnabled
	}
	if o.CameraDevice != nil {
		cfg.Camera.Device = *o.CameraDevice
	}
	if o.RenderFPS != nil {
		cfg.Render.FPS = *o.RenderFPS
	}
	if o.StorePath != nil {
		cfg.Store.Path = *o.StorePath
	}
	if o.PluginDir != nil {
		cfg.Plugins.Dir = *o.PluginDir
	}
	if o.TrayEnabled != nil {
		cfg.Tray.Enabled = *o.TrayEnabled
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants. Call it after defaults, file and
// overrides have been applied.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.StateHz <= 0 || c.Server.StateHz > 240 {
		return errors.New("server.state_hz must be between 1 and 240")
	}

	if c.Camera.Enabled {
		if c.Camera.Device < 0 {
			return errors.New("camera.device must be >= 0")
		}
		if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
			return errors.New("camera.width and camera.height must be > 0")
		}
		if c.Camera.FPS <= 0 {
			return errors.New("camera.fps must be > 0")
		}
	}

	if c.Detector.MaxHands < 1 {
		return errors.New("detector.max_hands must be >= 1")
	}
	if !unit(c.Detector.MinDetectionConfidence) || !unit(c.Detector.MinTrackingConfidence) {
		return errors.New("detector confidences must be within [0,1]")
	}

	if c.Render.FPS <= 0 || c.Render.FPS > 1000 {
		return errors.New("render.fps must be between 1 and 1000")
	}
	if c.Render.FullScale <= 0 || c.Render.ReducedScale <= 0 {
		return errors.New("render.full_scale and render.reduced_scale must be > 0")
	}
	if c.Render.FPSFloor < 0 {
		return errors.New("render.fps_floor must be >= 0")
	}
	if c.Render.FPSWindowMS <= 0 {
		return errors.New("render.fps_window_ms must be > 0")
	}

	if c.Control.IdleAfterMS <= 0 {
		return errors.New("control.idle_after_ms must be > 0")
	}
	if c.Control.HyperMS < 0 {
		return errors.New("control.hyper_ms must be >= 0")
	}
	g := c.Control.Gains
	for name, k := range map[string]float64{
		"scale": g.Scale, "spread": g.Spread, "rotation_x": g.RotationX,
		"spin_boost": g.SpinBoost, "warp": g.Warp, "brightness": g.Brightness, "chaos": g.Chaos,
	} {
		if k <= 0 || k > 1 {
			return fmt.Errorf("control.gains.%s must be within (0,1]", name)
		}
	}

	if c.Store.Enabled && c.Store.Path == "" {
		return errors.New("store.enabled is true but store.path is empty")
	}
	if c.Plugins.TimeoutMS <= 0 {
		return errors.New("plugins.timeout_ms must be > 0")
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// SceneConfig converts the render and control sections into controller tuning.
func (c *Config) SceneConfig() scene.Config {
	return scene.Config{
		IdleAfter:     time.Duration(c.Control.IdleAfterMS) * time.Millisecond,
		HyperDuration: time.Duration(c.Control.HyperMS) * time.Millisecond,
		FPSFloor:      c.Render.FPSFloor,
		FPSWindow:     time.Duration(c.Render.FPSWindowMS) * time.Millisecond,
		FullScale:     c.Render.FullScale,
		ReducedScale:  c.Render.ReducedScale,
		Gains:         c.Control.Gains,
	}
}

// CaptureConfig converts the camera section.
func (c *Config) CaptureConfig() capture.Config {
	return capture.Config{
		DeviceID: c.Camera.Device,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.FPS,
	}
}

// DetectorConfig converts the detector section.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
		ScriptPath:      ExpandPath(c.Detector.ScriptPath),
	}
}

// TickInterval returns the render tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}

// PluginTimeout returns the hook execution timeout.
func (c *Config) PluginTimeout() time.Duration {
	return time.Duration(c.Plugins.TimeoutMS) * time.Millisecond
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
