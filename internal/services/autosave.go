package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectUpdater is the part of ProjectService the autosaver writes through.
type ProjectUpdater interface {
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, input *UpdateProjectInput) (*models.Project, error)
}

type autosaveKey struct {
	projectID uuid.UUID
	field     string
}

type pendingWrite struct {
	timer  *time.Timer
	value  string
	userID uuid.UUID
	gen    uint64
}

// Autosaver coalesces rapid edits of a project's free-text fields. Each call
// restarts the window for its (project, field); only the last value in a
// window is written.
type Autosaver struct {
	updater ProjectUpdater
	window  time.Duration
	timeout time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[autosaveKey]*pendingWrite
	written map[autosaveKey]*keyWrites
	wg      sync.WaitGroup
}

// keyWrites serialises the writes of one (project, field). last is the
// generation of the newest value written so far.
type keyWrites struct {
	mu   sync.Mutex
	last uint64
}

func NewAutosaver(updater ProjectUpdater, window time.Duration) *Autosaver {
	if window <= 0 {
		window = time.Second
	}
	return &Autosaver{
		updater: updater,
		window:  window,
		timeout: 10 * time.Second,
		pending: map[autosaveKey]*pendingWrite{},
		written: map[autosaveKey]*keyWrites{},
	}
}

// Schedule queues value for field. Only name, description and audience are
// autosaved.
func (a *Autosaver) Schedule(projectID, userID uuid.UUID, field, value string) error {
	switch field {
	case "name", "description", "audience":
	default:
		return appErr.Newf(appErr.CodeInvalid, "field %q is not autosaved", field)
	}

	key := autosaveKey{projectID: projectID, field: field}
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[key]; ok {
		p.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.pending[key] = &pendingWrite{
		value:  value,
		userID: userID,
		gen:    gen,
		timer:  time.AfterFunc(a.window, func() { a.fire(key, gen) }),
	}
	return nil
}

// Pending returns how many writes are waiting for their window to close.
func (a *Autosaver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

func (a *Autosaver) fire(key autosaveKey, gen uint64) {
	a.mu.Lock()
	p, ok := a.pending[key]
	if !ok || p.gen != gen {
		// superseded by a later Schedule or taken by Flush
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.write(ctx, key, p); err != nil {
		logger.L().Error("autosave failed", zap.String("project_id", key.projectID.String()), zap.String("field", key.field), zap.Error(err))
	}
}

func (a *Autosaver) keyWrites(key autosaveKey) *keyWrites {
	a.mu.Lock()
	defer a.mu.Unlock()
	kw, ok := a.written[key]
	if !ok {
		kw = &keyWrites{}
		a.written[key] = kw
	}
	return kw
}

// write stores p unless a newer value for the same key already landed.
func (a *Autosaver) write(ctx context.Context, key autosaveKey, p *pendingWrite) error {
	kw := a.keyWrites(key)
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if p.gen < kw.last {
		return nil
	}

	v := p.value
	in := &UpdateProjectInput{}
	switch key.field {
	case "name":
		in.Name = &v
	case "description":
		in.Description = &v
	case "audience":
		in.Audience = &v
	}
	if _, err := a.updater.UpdateProject(ctx, key.projectID, p.userID, in); err != nil {
		return err
	}
	kw.last = p.gen
	return nil
}

// Flush writes every pending value now and waits for writes already in
// flight.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.pending
	a.pending = map[autosaveKey]*pendingWrite{}
	for _, p := range batch {
		p.timer.Stop()
	}
	a.mu.Unlock()

	var errs []error
	for key, p := range batch {
		if err := a.write(ctx, key, p); err != nil {
			logger.L().Error("autosave flush failed", zap.String("project_id", key.projectID.String()), zap.String("field", key.field), zap.Error(err))
			errs = append(errs, err)
		}
	}
	a.wg.Wait()
	return errors.Join(errs...)
}
