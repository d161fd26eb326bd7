package cli

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/render"
	"github.com/matzehuels/arcforge/pkg/scene"
)

// eventBuffer bounds the key events queued for a view. Events beyond it
// are dropped so the bubbletea loop never blocks on a busy view.
const eventBuffer = 32

// terminal runs one bubbletea program for a whole browse session. Views
// acquire lightweight engines from it; only the most recently acquired
// engine receives key events, so navigating keeps the screen instead of
// restarting the program.
type terminal struct {
	program *tea.Program
	done    chan struct{}
	err     error

	mu       sync.Mutex
	current  *termEngine
	finished bool
}

func newTerminal(opts ...tea.ProgramOption) *terminal {
	t := &terminal{done: make(chan struct{})}
	t.program = tea.NewProgram(NewBrowseModel(t.emit), opts...)
	return t
}

// Start runs the program in the background. When it exits the current
// engine's event stream is closed.
func (t *terminal) Start() {
	go func() {
		_, err := t.program.Run()
		t.mu.Lock()
		t.err = err
		t.finished = true
		cur := t.current
		t.current = nil
		t.mu.Unlock()
		close(t.done)
		if cur != nil {
			cur.endStream()
		}
	}()
}

// Quit stops the program and waits for the terminal to be restored.
func (t *terminal) Quit() error {
	t.program.Quit()
	<-t.done
	return t.err
}

// Factory returns the engine factory for render.NewView.
func (t *terminal) Factory() render.Factory {
	return func(ctx context.Context) (render.Engine, error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.finished {
			if t.err != nil {
				return nil, t.err
			}
			return nil, errors.New(errors.ErrCodeRenderUnavailable, "terminal closed")
		}
		e := &termEngine{term: t, events: make(chan render.Event, eventBuffer)}
		if t.current != nil {
			t.current.endStream()
		}
		t.current = e
		return e, nil
	}
}

func (t *terminal) emit(ev render.Event) {
	t.mu.Lock()
	e := t.current
	t.mu.Unlock()
	if e != nil {
		e.emit(ev)
	}
}

func (t *terminal) detach(e *termEngine) {
	t.mu.Lock()
	if t.current == e {
		t.current = nil
	}
	t.mu.Unlock()
}

// termEngine is the render.Engine a view holds while mounted.
type termEngine struct {
	term   *terminal
	events chan render.Event

	mu    sync.Mutex
	ended bool
}

// Draw hands sc to the bubbletea loop.
func (e *termEngine) Draw(ctx context.Context, sc scene.Scene) error {
	select {
	case <-e.term.done:
		return errors.New(errors.ErrCodeRenderUnavailable, "terminal closed")
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	e.term.program.Send(sceneMsg{scene: sc})
	return nil
}

// Events returns the key-driven event stream.
func (e *termEngine) Events() <-chan render.Event { return e.events }

// Close detaches the engine and ends its stream.
func (e *termEngine) Close() error {
	e.term.detach(e)
	e.endStream()
	return nil
}

func (e *termEngine) emit(ev render.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}

func (e *termEngine) endStream() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ended {
		e.ended = true
		close(e.events)
	}
}
