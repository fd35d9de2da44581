package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// TerminalKeys maps special tcell keys to actions.
var TerminalKeys = map[tcell.Key]Action{
	tcell.KeyUp:     ActionUp,
	tcell.KeyRight:  ActionRight,
	tcell.KeyDown:   ActionDown,
	tcell.KeyLeft:   ActionLeft,
	tcell.KeyEscape: ActionExit,
	tcell.KeyCtrlC:  ActionExit,
}

// TerminalRunes maps printable keys (lower case) to actions.
var TerminalRunes = map[rune]Action{
	'w': ActionUp,
	'd': ActionRight,
	's': ActionDown,
	'a': ActionLeft,
	'q': ActionExit,
	'r': ActionRestart,
}

// Terminal reads key events from a tcell screen. Terminals deliver presses
// rather than held state, so a frame holds every press since the last poll.
type Terminal struct {
	events chan tcell.Event
	quit   chan struct{}
}

// NewTerminal starts draining screen events in the background. The screen
// must already be initialised.
func NewTerminal(screen tcell.Screen) *Terminal {
	t := &Terminal{
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// screen finalised
				return
			}
			select {
			case t.events <- ev:
			case <-t.quit:
				return
			}
		}
	}()
	return t
}

func (t *Terminal) Poll() (Frame, error) {
	var f Frame
	for {
		select {
		case ev := <-t.events:
			if key, ok := ev.(*tcell.EventKey); ok {
				f.Apply(TerminalAction(key))
			}
		default:
			return f, nil
		}
	}
}

// Close stops the event goroutine once the screen delivers its next event
// or is finalised.
func (t *Terminal) Close() {
	close(t.quit)
}

// TerminalAction resolves a key event to its action.
func TerminalAction(ev *tcell.EventKey) Action {
	if ev.Key() == tcell.KeyRune {
		return TerminalRunes[unicode.ToLower(ev.Rune())]
	}
	return TerminalKeys[ev.Key()]
}
