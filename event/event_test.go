package event

import (
	"strings"
	"testing"
)

var allCategories = []Category{
	CategoryApplication,
	CategoryInput,
	CategoryKeyboard,
	CategoryMouse,
	CategoryMouseButton,
}

// one zero-value payload per kind, with the category flags it must report
var kindFixtures = []struct {
	payload  Payload
	kind     Kind
	name     string
	category Category
}{
	{WindowClose{}, KindWindowClose, "WindowClose", CategoryApplication},
	{WindowResize{}, KindWindowResize, "WindowResize", CategoryApplication},
	{WindowFocus{}, KindWindowFocus, "WindowFocus", CategoryApplication},
	{WindowLostFocus{}, KindWindowLostFocus, "WindowLostFocus", CategoryApplication},
	{WindowMoved{}, KindWindowMoved, "WindowMoved", CategoryApplication},
	{AppTick{}, KindAppTick, "AppTick", CategoryApplication},
	{AppUpdate{}, KindAppUpdate, "AppUpdate", CategoryApplication},
	{AppRender{}, KindAppRender, "AppRender", CategoryApplication},
	{KeyPressed{}, KindKeyPressed, "KeyPressed", CategoryKeyboard | CategoryInput},
	{KeyReleased{}, KindKeyReleased, "KeyReleased", CategoryKeyboard | CategoryInput},
	{MouseButtonPressed{}, KindMouseButtonPressed, "MouseButtonPressed", CategoryMouse | CategoryMouseButton | CategoryInput},
	{MouseButtonReleased{}, KindMouseButtonReleased, "MouseButtonReleased", CategoryMouse | CategoryMouseButton | CategoryInput},
	{MouseMoved{}, KindMouseMoved, "MouseMoved", CategoryMouse | CategoryInput},
	{MouseScrolled{}, KindMouseScrolled, "MouseScrolled", CategoryMouse | CategoryInput},
}

func TestKindIsStable(t *testing.T) {
	if len(kindFixtures) != len(Kinds()) {
		t.Fatalf("expected a fixture for each of the %d kinds, got %d", len(Kinds()), len(kindFixtures))
	}
	for _, f := range kindFixtures {
		e := New(f.payload)
		for i := 0; i < 3; i++ {
			if e.Kind() != f.kind {
				t.Errorf("%T: expected kind %v but got %v", f.payload, f.kind, e.Kind())
			}
		}
		if e.Name() != f.name {
			t.Errorf("%T: expected name %s but got %s", f.payload, f.name, e.Name())
		}
	}
}

func TestCategoryTruthTable(t *testing.T) {
	for _, f := range kindFixtures {
		e := New(f.payload)
		if e.Category() != f.category {
			t.Errorf("%v: expected category %v but got %v", f.kind, f.category, e.Category())
		}
		for _, c := range allCategories {
			expected := f.category&c != 0
			if got := e.IsInCategory(c); got != expected {
				t.Errorf("IsInCategory(%v, %v): expected %v but got %v", f.kind, c, expected, got)
			}
		}
	}
}

func TestCategoryCombinedMask(t *testing.T) {
	e := New(KeyPressed{Key: 30})
	if !e.IsInCategory(CategoryMouse | CategoryKeyboard) {
		t.Errorf("expected a key event to match a mask containing keyboard")
	}
	if e.IsInCategory(CategoryMouse | CategoryApplication) {
		t.Errorf("expected a key event not to match mouse|application")
	}
	if e.IsInCategory(0) {
		t.Errorf("expected no event to match the empty mask")
	}
}

func TestResizeEvent(t *testing.T) {
	e := New(WindowResize{Width: 1280, Height: 720})
	if !e.IsInCategory(CategoryApplication) {
		t.Errorf("expected resize to be an application event")
	}
	if e.IsInCategory(CategoryInput) {
		t.Errorf("expected resize not to be an input event")
	}
	s := e.String()
	if !strings.Contains(s, "1280") || !strings.Contains(s, "720") {
		t.Errorf("expected both dimensions in %q", s)
	}
}

func TestStringDefaultsToName(t *testing.T) {
	tests := []struct {
		payload  Payload
		expected string
	}{
		{WindowClose{}, "WindowClose"},
		{AppTick{}, "AppTick"},
		{KeyPressed{Key: 30, RepeatCount: 2}, "KeyPressedEvent: 30 (2 repeats)"},
		{KeyReleased{Key: 30}, "KeyReleasedEvent: 30"},
		{MouseButtonPressed{Button: ButtonMiddle}, "MouseButtonPressedEvent: 2"},
		{MouseMoved{X: 1.5, Y: 3}, "MouseMovedEvent: 1.5, 3"},
		{MouseScrolled{XOffset: 0, YOffset: -1}, "MouseScrolledEvent: 0, -1"},
		{WindowMoved{X: 10, Y: 20}, "WindowMovedEvent: 10, 20"},
	}
	for _, test := range tests {
		if got := New(test.payload).String(); got != test.expected {
			t.Errorf("expected %q but got %q", test.expected, got)
		}
	}
}

func TestHandledOnlyMovesForward(t *testing.T) {
	e := New(WindowFocus{})
	if e.Handled() {
		t.Fatalf("expected a new event to be unhandled")
	}
	e.MarkHandled()
	e.MarkHandled()
	if !e.Handled() {
		t.Errorf("expected the event to stay handled")
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c        Category
		expected string
	}{
		{0, "None"},
		{CategoryApplication, "Application"},
		{CategoryKeyboard | CategoryInput, "Input|Keyboard"},
		{KindMouseButtonPressed.Category(), "Input|Mouse|MouseButton"},
	}
	for _, test := range tests {
		if got := test.c.String(); got != test.expected {
			t.Errorf("expected %q but got %q", test.expected, got)
		}
	}
}

func TestUnknownKind(t *testing.T) {
	k := Kind(99)
	if k.Category() != 0 {
		t.Errorf("expected no category for an unknown kind")
	}
	if k.String() != "Kind(99)" {
		t.Errorf("unexpected name %q", k.String())
	}
}
