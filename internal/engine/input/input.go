// Package input defines the platform-neutral input events the viewer reacts to.
// The window package fills an Input from the OS event queue each frame.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventClick // Left button released
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowResize:
		return "resize"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventClick:
		return "click"
	default:
		return "none"
	}
}

// Key is a physical key scancode (USB HID usage, as reported by SDL).
type Key int32

const (
	KeyEscape Key = 41
	KeyM      Key = 16
	KeyF12    Key = 69
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input collects the events of one frame.
type Input struct {
	events []Event
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset clears the previous frame's events.
func (i *Input) Reset() {
	i.events = i.events[:0]
	i.quit = false
}

// Push records an event. A left-button release also records a click.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
	switch {
	case e.Type == EventQuit:
		i.quit = true
	case e.Type == EventMouseUp && e.Button == ButtonLeft:
		i.events = append(i.events, Event{Type: EventClick, MouseX: e.MouseX, MouseY: e.MouseY, Button: e.Button})
	}
}

// Events returns the events pushed since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// QuitRequested reports whether a quit event arrived this frame.
func (i *Input) QuitRequested() bool {
	return i.quit
}
