package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jbensmann/kiln/app"
	"github.com/jbensmann/kiln/config"
	"github.com/jbensmann/kiln/event"
	"github.com/jbensmann/kiln/layers"
	"github.com/jbensmann/kiln/telemetry"
	"github.com/jbensmann/kiln/window"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

const version = "0.1.0"

const (
	serviceName       = "kiln"
	defaultConfigFile = ".config/kiln/config.yaml"
	shutdownTimeout   = 5 * time.Second
)

var opts struct {
	Version    bool   `short:"v" long:"version" description:"Show the version"`
	Debug      bool   `short:"d" long:"debug" description:"Show verbose debug information"`
	Trace      bool   `short:"t" long:"trace" description:"Log every dispatched event"`
	ConfigFile string `short:"c" long:"config" description:"The config file"`
	Backend    string `short:"b" long:"backend" description:"The window backend" choice:"headless" choice:"evdev"`
	Frames     uint64 `short:"n" long:"frames" description:"Close the window after this many frames"`
}

func main() {
	_, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	initLogging()

	conf := loadConfig()
	if err := applyFlags(conf); err != nil {
		exitError(err, "Invalid configuration")
	}

	shutdownTelemetry, err := telemetry.Setup(context.Background(), telemetry.Options{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       conf.OtelEndpoint,
		SampleRatio:    conf.SampleRatio,
		Backend:        string(conf.Backend),
	})
	if err != nil {
		exitError(err, "Failed to set up tracing")
	}

	err = run(func() (*app.Application, error) {
		return createApplication(conf)
	}, shutdownTelemetry)
	if err != nil {
		exitError(err, "Application failed")
	}
}

// applyFlags overrides the config with the command line flags and checks the
// result again.
func applyFlags(conf *config.Config) error {
	if opts.Backend != "" {
		conf.Backend = config.Backend(opts.Backend)
	}
	return conf.Validate()
}

// run runs the application and flushes the traces, also when it failed, since
// exitError does not return.
func run(create app.CreateFunc, shutdownTelemetry func(context.Context) error) error {
	err := app.Main(create)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := shutdownTelemetry(ctx); serr != nil {
		log.Warnf("Failed to shut down tracing: %v", serr)
	}
	return err
}

func initLogging() {
	log.SetOutput(os.Stdout)
	fd := os.Stdout.Fd()
	log.SetFormatter(&log.TextFormatter{
		DisableColors: !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd),
		FullTimestamp: true,
	})
	switch {
	case opts.Trace:
		log.SetLevel(log.TraceLevel)
	case opts.Debug:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig reads the given config file, or the default one if it exists.
func loadConfig() *config.Config {
	configFile := opts.ConfigFile
	explicit := configFile != ""
	if !explicit {
		u, err := user.Current()
		if err != nil {
			exitError(err, "Failed to get the current user")
		}
		configFile = filepath.Join(u.HomeDir, defaultConfigFile)
	}

	log.Debugf("Using config file: %s", configFile)
	conf, err := config.ReadConfig(configFile)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			log.Debugf("No config file found, using the defaults")
			return config.Default()
		}
		exitError(err, "Failed to read the config file")
	}
	return conf
}

// createApplication opens the window and builds the layer stack:
// the configured layers, then the input state and the event log overlays.
func createApplication(conf *config.Config) (*app.Application, error) {
	props := window.Props{
		Title:       conf.Title,
		Width:       conf.Width,
		Height:      conf.Height,
		RefreshRate: conf.RefreshRate,
	}

	var win window.Window
	switch conf.Backend {
	case config.BackendEvdev:
		w, err := window.NewDevice(props, window.DeviceOptions{
			Paths:       conf.Devices,
			PassThrough: conf.PassThrough,
		})
		if err != nil {
			return nil, fmt.Errorf("create device window: %w", err)
		}
		win = w
	default:
		win = window.NewHeadless(props)
	}
	win.SetVSync(conf.VSync)

	var frames uint64
	a, err := app.New(win, app.WithRenderFunc(func() {
		frames++
		if opts.Frames > 0 && frames >= opts.Frames {
			log.Debugf("Reached %d frames", frames)
			win.RequestClose()
		}
	}))
	if err != nil {
		_ = win.Close()
		return nil, err
	}

	for _, l := range conf.Layers {
		bindings := layers.NewBindings(l, win)
		if l.Overlay {
			a.PushOverlay(bindings)
		} else {
			a.PushLayer(bindings)
		}
	}
	a.PushOverlay(layers.NewInputState())
	a.PushOverlay(layers.NewEventLog(event.CategoryApplication | event.CategoryInput))

	go handleSignals(win)
	return a, nil
}

// handleSignals requests a window close on SIGINT and SIGTERM.
func handleSignals(win window.Window) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	for sig := range sigs {
		log.Infof("Received %v, closing the window", sig)
		win.RequestClose()
	}
}

func exitError(err error, msg string) {
	if err != nil {
		log.Errorf(msg+": %v", err)
	} else {
		log.Error(msg)
	}
	log.Error("Exiting")
	os.Exit(1)
}
