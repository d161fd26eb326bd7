package render

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/observability"
)

// Handle owns one acquired engine until it is released.
type Handle struct {
	id       string
	name     string
	engine   Engine
	acquired time.Time
	logger   *log.Logger

	once       sync.Once
	releaseErr error
}

// Acquire creates an engine with factory and wraps it in a handle.
// Failures are returned as RENDER_UNAVAILABLE errors.
func Acquire(ctx context.Context, name string, factory Factory, logger *log.Logger) (*Handle, error) {
	if logger == nil {
		logger = log.Default()
	}
	if factory == nil {
		err := errors.New(errors.ErrCodeRenderUnavailable, "no %s engine configured", name)
		observability.Render().OnEngineAcquire(ctx, name, err)
		return nil, err
	}

	engine, err := factory(ctx)
	if err == nil && engine == nil {
		err = errors.New(errors.ErrCodeRenderUnavailable, "%s engine factory returned no engine", name)
	}
	if err != nil {
		if !errors.Is(err, errors.ErrCodeRenderUnavailable) {
			err = errors.Wrap(errors.ErrCodeRenderUnavailable, err, "start %s engine", name)
		}
		observability.Render().OnEngineAcquire(ctx, name, err)
		logger.Warn("visualization unavailable", "engine", name, "error", err)
		return nil, err
	}

	h := &Handle{
		id:       uuid.NewString(),
		name:     name,
		engine:   engine,
		acquired: time.Now(),
		logger:   logger,
	}
	observability.Render().OnEngineAcquire(ctx, name, nil)
	logger.Debug("engine acquired", "engine", name, "handle", h.id)
	return h, nil
}

// ID returns the handle's unique id.
func (h *Handle) ID() string { return h.id }

// Name returns the engine name the handle was acquired with.
func (h *Handle) Name() string { return h.name }

// Engine returns the underlying engine.
func (h *Handle) Engine() Engine { return h.engine }

// Release closes the engine. Only the first call has an effect; later calls
// return the first call's result.
func (h *Handle) Release(ctx context.Context) error {
	h.once.Do(func() {
		h.releaseErr = h.engine.Close()
		lifetime := time.Since(h.acquired)
		observability.Render().OnEngineRelease(ctx, h.name, lifetime)
		if h.releaseErr != nil {
			h.logger.Warn("engine release failed", "engine", h.name, "handle", h.id, "error", h.releaseErr)
			return
		}
		h.logger.Debug("engine released", "engine", h.name, "handle", h.id, "lifetime", lifetime)
	})
	return h.releaseErr
}
