package event

import "fmt"

// Key is a key code. The device backend uses the Linux input key codes.
type Key uint16

// MouseButton is a mouse button index: 0 left, 1 right, 2 middle.
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return fmt.Sprintf("button%d", uint8(b))
}

type WindowClose struct{}

func (WindowClose) Kind() Kind { return KindWindowClose }

type WindowResize struct {
	Width, Height int
}

func (WindowResize) Kind() Kind { return KindWindowResize }

func (r WindowResize) String() string {
	return fmt.Sprintf("WindowResizeEvent: %d, %d", r.Width, r.Height)
}

type WindowFocus struct{}

func (WindowFocus) Kind() Kind { return KindWindowFocus }

type WindowLostFocus struct{}

func (WindowLostFocus) Kind() Kind { return KindWindowLostFocus }

type WindowMoved struct {
	X, Y int
}

func (WindowMoved) Kind() Kind { return KindWindowMoved }

func (m WindowMoved) String() string {
	return fmt.Sprintf("WindowMovedEvent: %d, %d", m.X, m.Y)
}

type AppTick struct{}

func (AppTick) Kind() Kind { return KindAppTick }

type AppUpdate struct{}

func (AppUpdate) Kind() Kind { return KindAppUpdate }

type AppRender struct{}

func (AppRender) Kind() Kind { return KindAppRender }

// KeyPressed is raised on the first press of a key and again for every
// auto-repeat, with RepeatCount counting the repeats.
type KeyPressed struct {
	Key         Key
	RepeatCount int
}

func (KeyPressed) Kind() Kind { return KindKeyPressed }

func (k KeyPressed) String() string {
	return fmt.Sprintf("KeyPressedEvent: %d (%d repeats)", k.Key, k.RepeatCount)
}

type KeyReleased struct {
	Key Key
}

func (KeyReleased) Kind() Kind { return KindKeyReleased }

func (k KeyReleased) String() string {
	return fmt.Sprintf("KeyReleasedEvent: %d", k.Key)
}

type MouseButtonPressed struct {
	Button MouseButton
}

func (MouseButtonPressed) Kind() Kind { return KindMouseButtonPressed }

func (m MouseButtonPressed) String() string {
	return fmt.Sprintf("MouseButtonPressedEvent: %d", m.Button)
}

type MouseButtonReleased struct {
	Button MouseButton
}

func (MouseButtonReleased) Kind() Kind { return KindMouseButtonReleased }

func (m MouseButtonReleased) String() string {
	return fmt.Sprintf("MouseButtonReleasedEvent: %d", m.Button)
}

// MouseMoved carries the cursor position in window coordinates.
type MouseMoved struct {
	X, Y float32
}

func (MouseMoved) Kind() Kind { return KindMouseMoved }

func (m MouseMoved) String() string {
	return fmt.Sprintf("MouseMovedEvent: %g, %g", m.X, m.Y)
}

type MouseScrolled struct {
	XOffset, YOffset float32
}

func (MouseScrolled) Kind() Kind { return KindMouseScrolled }

func (m MouseScrolled) String() string {
	return fmt.Sprintf("MouseScrolledEvent: %g, %g", m.XOffset, m.YOffset)
}
