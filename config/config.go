package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Backend string

const (
	BackendHeadless Backend = "headless"
	BackendEvdev    Backend = "evdev"
)

type Action string

const (
	ActionMulti       Action = "multi"
	ActionQuit        Action = "quit"
	ActionToggleVSync Action = "toggle-vsync"
	ActionVSync       Action = "vsync"
	ActionExec        Action = "exec"
	ActionLog         Action = "log"
	ActionNop         Action = "nop"
)

const (
	defaultTitle       = "Kiln Engine"
	defaultWidth       = 1280
	defaultHeight      = 720
	defaultRefreshRate = 60
	defaultSampleRatio = 1.0
)

// RawConfig defines the structure of the config file.
type RawConfig struct {
	Window       RawWindow  `yaml:"window"`
	RefreshRate  int        `yaml:"refreshRate"`
	Backend      string     `yaml:"backend"`
	Devices      []string   `yaml:"devices"`
	PassThrough  bool       `yaml:"passThrough"`
	OtelEndpoint string     `yaml:"otelEndpoint"`
	SampleRatio  *float64   `yaml:"traceSampleRatio"`
	Layers       []RawLayer `yaml:"layers"`
}

type RawWindow struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  *bool  `yaml:"vsync"`
}

type RawLayer struct {
	Name     string            `yaml:"name"`
	Overlay  bool              `yaml:"overlay"`
	Bindings map[string]string `yaml:"bindings"`
}

// Config is the parsed form of RawConfig.
type Config struct {
	Title        string
	Width        int
	Height       int
	VSync        bool // default true
	RefreshRate  int
	Backend      Backend
	Devices      []string
	PassThrough  bool
	OtelEndpoint string
	// SampleRatio is the fraction of ticks that are traced, default 1.
	SampleRatio float64
	Layers      []*Layer
}

// envConfig holds the settings that can be overridden from the environment.
type envConfig struct {
	Title        string   `env:"KILN_WINDOW_TITLE"`
	Width        int      `env:"KILN_WINDOW_WIDTH"`
	Height       int      `env:"KILN_WINDOW_HEIGHT"`
	VSync        bool     `env:"KILN_VSYNC"`
	RefreshRate  int      `env:"KILN_REFRESH_RATE"`
	Backend      string   `env:"KILN_BACKEND"`
	Devices      []string `env:"KILN_DEVICES" envSeparator:","`
	PassThrough  bool     `env:"KILN_PASS_THROUGH"`
	OtelEndpoint string   `env:"KILN_OTEL_ENDPOINT"`
	SampleRatio  float64  `env:"KILN_TRACE_SAMPLE_RATIO"`
}

// Layer is a set of key bindings that is pushed onto the layer stack.
type Layer struct {
	Name     string
	Overlay  bool
	Bindings map[uint16]Binding
}

type Binding interface {
	binding()
}

type BaseBinding struct {
}

func (b BaseBinding) binding() {}

type MultiBinding struct {
	BaseBinding
	Bindings []Binding
}
type QuitBinding struct {
	BaseBinding
}
type ToggleVSyncBinding struct {
	BaseBinding
}
type VSyncBinding struct {
	BaseBinding
	Enabled bool
}
type ExecBinding struct {
	BaseBinding
	Command string
}
type LogBinding struct {
	BaseBinding
	Message string
}
type NopBinding struct {
	BaseBinding
}

// Default returns the configuration used when there is no config file: a
// headless window and a single layer that quits on escape.
func Default() *Config {
	config, err := ParseConfig([]byte(`
layers:
- name: controls
  bindings:
    esc: quit
`))
	if err != nil {
		panic(err)
	}
	return config
}

// ReadConfig reads and parses the configuration from the given file.
func ReadConfig(fileName string) (*Config, error) {
	configFile, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer configFile.Close()

	configString, err := io.ReadAll(configFile)
	if err != nil {
		return nil, err
	}

	return ParseConfig(configString)
}

// ParseConfig parses the given configuration and applies the overrides from
// the environment.
func ParseConfig(configBytes []byte) (*Config, error) {
	var rawConfig RawConfig
	err := yaml.Unmarshal(configBytes, &rawConfig)
	if err != nil {
		return nil, err
	}

	config := Config{
		Title:       defaultTitle,
		Width:       defaultWidth,
		Height:      defaultHeight,
		VSync:       true,
		RefreshRate: defaultRefreshRate,
		Backend:     BackendHeadless,
		SampleRatio: defaultSampleRatio,
	}
	if rawConfig.Window.Title != "" {
		config.Title = rawConfig.Window.Title
	}
	if rawConfig.Window.Width > 0 {
		config.Width = rawConfig.Window.Width
	}
	if rawConfig.Window.Height > 0 {
		config.Height = rawConfig.Window.Height
	}
	if rawConfig.Window.VSync != nil {
		config.VSync = *rawConfig.Window.VSync
	}
	if rawConfig.RefreshRate > 0 {
		config.RefreshRate = rawConfig.RefreshRate
	}
	if rawConfig.Backend != "" {
		config.Backend = Backend(rawConfig.Backend)
	}
	config.Devices = rawConfig.Devices
	config.PassThrough = rawConfig.PassThrough
	config.OtelEndpoint = rawConfig.OtelEndpoint
	if rawConfig.SampleRatio != nil {
		config.SampleRatio = *rawConfig.SampleRatio
	}

	for i, l := range rawConfig.Layers {
		layer, err := parseLayer(l)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer %v : %v", i, err)
		}
		config.Layers = append(config.Layers, layer)
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Debugf("config: %+v", config)
	return &config, nil
}

func applyEnv(config *Config) error {
	e := envConfig{
		Title:        config.Title,
		Width:        config.Width,
		Height:       config.Height,
		VSync:        config.VSync,
		RefreshRate:  config.RefreshRate,
		Backend:      string(config.Backend),
		Devices:      config.Devices,
		PassThrough:  config.PassThrough,
		OtelEndpoint: config.OtelEndpoint,
		SampleRatio:  config.SampleRatio,
	}
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	config.Title = e.Title
	config.Width = e.Width
	config.Height = e.Height
	config.VSync = e.VSync
	config.RefreshRate = e.RefreshRate
	config.Backend = Backend(e.Backend)
	config.Devices = e.Devices
	config.PassThrough = e.PassThrough
	config.OtelEndpoint = e.OtelEndpoint
	config.SampleRatio = e.SampleRatio
	return nil
}

// Validate checks the settings that depend on each other. It has to be called
// again after changing a parsed Config.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHeadless, BackendEvdev:
	default:
		return fmt.Errorf("unknown backend '%v'", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.RefreshRate <= 0 {
		return fmt.Errorf("invalid refresh rate %d", c.RefreshRate)
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("trace sample ratio %v is not between 0 and 1", c.SampleRatio)
	}
	if c.PassThrough && c.Backend != BackendEvdev {
		return fmt.Errorf("passThrough requires the %v backend", BackendEvdev)
	}
	return nil
}

// parseLayer parses a single RawLayer to Layer.
func parseLayer(rawLayer RawLayer) (*Layer, error) {
	var layer Layer

	if rawLayer.Name == "" {
		return nil, fmt.Errorf("no name given")
	}

	layer.Name = rawLayer.Name
	layer.Overlay = rawLayer.Overlay
	layer.Bindings = make(map[uint16]Binding)

	for key, bind := range rawLayer.Bindings {
		code, err := parseKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse the key '%v': %v", key, err)
		}
		binding, err := parseBinding(bind)
		if err != nil {
			return nil, fmt.Errorf("failed to parse the binding '%v': %v", bind, err)
		}
		layer.Bindings[code] = binding
	}

	return &layer, nil
}

// parseBinding parses a single binding of a layer.
func parseBinding(rawBinding string) (binding Binding, err error) {
	spaceSplit := strings.Fields(rawBinding)
	if len(spaceSplit) == 0 {
		return nil, fmt.Errorf("binding is empty")
	}
	action := spaceSplit[0]
	argString := strings.TrimSpace(strings.Replace(rawBinding, action, "", 1))
	args := spaceSplit[1:]

	switch action {
	case string(ActionMulti):
		metaArgs := strings.Split(argString, ";")
		if len(metaArgs) < 2 {
			return nil, fmt.Errorf("action requires at least two meta arguments (separated by ;)")
		}
		multiBinding := MultiBinding{}
		for _, arg := range metaArgs {
			b, err := parseBinding(arg)
			if err != nil {
				return nil, err
			}
			multiBinding.Bindings = append(multiBinding.Bindings, b)
		}
		binding = multiBinding
	case string(ActionQuit):
		if len(args) != 0 {
			return nil, fmt.Errorf("action does not take any argument")
		}
		binding = QuitBinding{}
	case string(ActionToggleVSync):
		if len(args) != 0 {
			return nil, fmt.Errorf("action does not take any argument")
		}
		binding = ToggleVSyncBinding{}
	case string(ActionVSync):
		if len(args) != 1 {
			return nil, fmt.Errorf("action requires exactly one argument")
		}
		switch args[0] {
		case "on":
			binding = VSyncBinding{Enabled: true}
		case "off":
			binding = VSyncBinding{Enabled: false}
		default:
			return nil, fmt.Errorf("first argument must be on or off")
		}
	case string(ActionExec):
		if len(args) == 0 {
			return nil, fmt.Errorf("action requires at least one argument")
		}
		binding = ExecBinding{Command: argString}
	case string(ActionLog):
		if len(args) == 0 {
			return nil, fmt.Errorf("action requires at least one argument")
		}
		binding = LogBinding{Message: argString}
	case string(ActionNop):
		if len(args) != 0 {
			return nil, fmt.Errorf("action does not take any argument")
		}
		binding = NopBinding{}
	default:
		return nil, fmt.Errorf("unknown action '%v'", action)
	}

	return binding, nil
}

// parseKey parses a single key, which can be either the code itself or an alias.
func parseKey(key string) (code uint16, err error) {
	key = strings.TrimSpace(key)

	if code, ok := keyAliases[key]; ok {
		return code, nil
	}

	if code, err := strconv.ParseUint(key, 10, 16); err == nil {
		return uint16(code), nil
	}

	return 0, fmt.Errorf("neither an integer nor a key alias")
}
