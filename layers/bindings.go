// Package layers contains ready-made layers for applications.
package layers

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/jbensmann/kiln/config"
	"github.com/jbensmann/kiln/event"
	"github.com/jbensmann/kiln/layer"
	log "github.com/sirupsen/logrus"
)

// Controller is the part of the window that bindings act on.
type Controller interface {
	RequestClose()
	SetVSync(enabled bool)
	IsVSync() bool
}

// Bindings executes the key bindings of a configured layer. A bound key
// claims its press, its repeats and its release; other keys pass through.
type Bindings struct {
	layer.Base
	bindings   map[uint16]config.Binding
	controller Controller
	held       map[event.Key]struct{}

	startCommand func(cmd *exec.Cmd)
}

func NewBindings(conf *config.Layer, controller Controller) *Bindings {
	return &Bindings{
		Base:         layer.NewBase(conf.Name),
		bindings:     conf.Bindings,
		controller:   controller,
		held:         make(map[event.Key]struct{}),
		startCommand: startInBackground,
	}
}

func (b *Bindings) OnEvent(e *event.Event) {
	d := event.NewDispatcher(e)
	event.Dispatch(d, b.onKeyPressed)
	event.Dispatch(d, b.onKeyReleased)
}

// OnDetach forgets held keys, their releases are no longer claimed.
func (b *Bindings) OnDetach() {
	b.held = make(map[event.Key]struct{})
}

func (b *Bindings) onKeyPressed(k event.KeyPressed) bool {
	binding, ok := b.bindings[uint16(k.Key)]
	if !ok {
		return false
	}
	if k.RepeatCount == 0 {
		b.ExecuteBinding(binding, uint16(k.Key))
	}
	b.held[k.Key] = struct{}{}
	return true
}

func (b *Bindings) onKeyReleased(k event.KeyReleased) bool {
	if _, ok := b.held[k.Key]; !ok {
		return false
	}
	delete(b.held, k.Key)
	return true
}

// ExecuteBinding does what the binding says, causeCode is the bound key.
func (b *Bindings) ExecuteBinding(binding config.Binding, causeCode uint16) {
	log.Debugf("%s: executing %T: %+v", b.Name(), binding, binding)

	switch t := binding.(type) {
	case config.MultiBinding:
		for _, binding := range t.Bindings {
			b.ExecuteBinding(binding, causeCode)
		}
	case config.QuitBinding:
		b.controller.RequestClose()
	case config.ToggleVSyncBinding:
		b.controller.SetVSync(!b.controller.IsVSync())
	case config.VSyncBinding:
		b.controller.SetVSync(t.Enabled)
	case config.LogBinding:
		log.Info(t.Message)
	case config.ExecBinding:
		log.Debugf("Executing: %s", t.Command)
		cmd := exec.Command("sh", "-c", t.Command)
		// pass the pressed key as environment variable
		alias, exists := config.GetKeyAlias(causeCode)
		if !exists {
			alias = "unknown"
		}
		cmd.Env = append(
			os.Environ(),
			fmt.Sprintf("key=%s", alias),
			fmt.Sprintf("key_code=%d", causeCode),
		)
		b.startCommand(cmd)
	case config.NopBinding:
	}
}

// startInBackground runs the command without blocking the loop.
func startInBackground(cmd *exec.Cmd) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		log.Warnf("Execution of command failed: %v", err)
		return
	}
	go func() {
		err := cmd.Wait()
		if err == nil {
			return
		}
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			log.Warnf("Execution of command '%s' failed: %v, stderr: %s", cmd.Args[2], err, stderr.String())
		} else {
			log.Warnf("Execution of command '%s' failed: %v", cmd.Args[2], err)
		}
	}()
}
