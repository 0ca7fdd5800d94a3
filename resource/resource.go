// Package resource resolves and caches per-route data ahead of rendering.
// A Manager installs as a pre-navigation guard: for every injection declared
// on the matched route records it resolves the payload keyed by a route
// parameter, exposes reactive loading/error state, and reuses the cached
// payload while the parameter is unchanged. Navigation never blocks on
// resolutions; they settle concurrently and stale completions are discarded
// by a per-prop sequence token.
package resource

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	blueprint "github.com/Hank-IT/blueprint-core"
)

// ErrUnknownProp reports a refresh for a prop no active route declares.
var ErrUnknownProp = errors.New("resource: unknown prop")

// ResolveFunc fetches the payload for a parameter value.
type ResolveFunc func(ctx context.Context, param string) (any, error)

// Injection declares one per-route resource: the prop name it publishes
// under, the route parameter it keys on, the resolver, and an optional
// payload transform.
type Injection struct {
	Prop    string
	From    string
	Resolve ResolveFunc
	Getter  func(any) any
}

// RouteRecord is one matched segment of a route hierarchy.
type RouteRecord struct {
	Name       string
	Injections []Injection
}

// Route is the navigation target handed to the guard: its parameters and the
// matched records ordered parent to child.
type Route struct {
	Name    string
	Params  map[string]string
	Matched []*RouteRecord
	Meta    *Meta
}

// PropState is the reactive resolution state for one prop.
type PropState struct {
	Loading blueprint.Cell
	Error   blueprint.Cell
}

type cacheEntry struct {
	param   string
	payload any
}

// Manager is the guard-installed cache and resolver registry.
type Manager struct {
	mu         sync.Mutex
	cache      map[string]cacheEntry
	props      map[string]any
	states     map[string]*PropState
	seq        map[string]uint64
	injections map[string]Injection
	params     map[string]string
	pending    sync.WaitGroup
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the resolution diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager builds an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		cache:      map[string]cacheEntry{},
		props:      map[string]any{},
		states:     map[string]*PropState{},
		seq:        map[string]uint64{},
		injections: map[string]Injection{},
		params:     map[string]string{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BeforeResolve walks the matched records parent to child and schedules a
// resolution for every injection whose cached payload is missing or keyed by
// a different parameter value. It returns without waiting: resolutions run
// concurrently and publish through the reactive prop states. Failures here
// are logged and recorded, never thrown, so resolution can't break
// navigation.
func (m *Manager) BeforeResolve(route *Route) {
	route.Meta = &Meta{mgr: m}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range route.Matched {
		for _, inj := range rec.Injections {
			param := route.Params[inj.From]
			m.injections[inj.Prop] = inj
			m.params[inj.Prop] = param
			if entry, ok := m.cache[inj.Prop]; ok && entry.param == param {
				m.props[inj.Prop] = entry.payload
				continue
			}
			m.startLocked(context.Background(), inj, param, false)
		}
	}
}

// AfterNavigation evicts cache entries, props, and states whose prop is not
// declared anywhere in the newly active route hierarchy. Resolutions still in
// flight for an evicted prop lose their sequence entry and are discarded when
// they settle.
func (m *Manager) AfterNavigation(route *Route) {
	active := map[string]bool{}
	for _, rec := range route.Matched {
		for _, inj := range rec.Injections {
			active[inj.Prop] = true
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for prop := range m.injections {
		if !active[prop] {
			delete(m.cache, prop)
			delete(m.props, prop)
			delete(m.states, prop)
			delete(m.injections, prop)
			delete(m.params, prop)
			// drop the sequence entry so in-flight resolutions for the
			// evicted prop fail the staleness check in settle
			delete(m.seq, prop)
		}
	}
}

// Refresh re-resolves a prop bypassing the cache and returns the resolution
// error to the caller. With silent, the loading flag is left alone while the
// error state still updates.
func (m *Manager) Refresh(ctx context.Context, prop string, silent bool) error {
	m.mu.Lock()
	inj, ok := m.injections[prop]
	param := m.params[prop]
	if !ok {
		m.mu.Unlock()
		return ErrUnknownProp
	}
	token := m.nextSeqLocked(prop)
	st := m.stateLocked(prop)
	if !silent {
		st.Loading.Set(true)
	}
	m.mu.Unlock()

	payload, err := m.resolve(ctx, inj, param)
	m.settle(prop, param, token, payload, err, silent)
	return err
}

// Prop returns the currently injected payload for prop.
func (m *Manager) Prop(prop string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.props[prop]
	return v, ok
}

// State returns the reactive resolution state for prop, creating it on first
// use so views can subscribe before the first resolution.
func (m *Manager) State(prop string) *PropState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked(prop)
}

// Wait blocks until all in-flight background resolutions settle. Intended
// for tests and shutdown.
func (m *Manager) Wait() {
	m.pending.Wait()
}

// startLocked launches one background resolution. Callers hold the lock.
func (m *Manager) startLocked(ctx context.Context, inj Injection, param string, silent bool) {
	token := m.nextSeqLocked(inj.Prop)
	st := m.stateLocked(inj.Prop)
	if !silent {
		st.Loading.Set(true)
	}
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		payload, err := m.resolve(ctx, inj, param)
		m.settle(inj.Prop, param, token, payload, err, silent)
	}()
}

func (m *Manager) resolve(ctx context.Context, inj Injection, param string) (any, error) {
	payload, err := inj.Resolve(ctx, param)
	if err != nil {
		return nil, err
	}
	if inj.Getter != nil {
		payload = inj.Getter(payload)
	}
	return payload, nil
}

// settle commits one resolution outcome unless a newer resolution for the
// same prop was issued meanwhile.
func (m *Manager) settle(prop, param string, token uint64, payload any, err error, silent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq[prop] != token {
		// a newer resolution owns the prop now
		return
	}
	st := m.stateLocked(prop)
	if err != nil {
		m.logger.Warn("resource resolution failed", "prop", prop, "param", param, "error", err)
		st.Error.Set(err)
	} else {
		st.Error.Set(nil)
		m.cache[prop] = cacheEntry{param: param, payload: payload}
		m.props[prop] = payload
	}
	if !silent {
		st.Loading.Set(false)
	}
}

func (m *Manager) nextSeqLocked(prop string) uint64 {
	m.seq[prop]++
	return m.seq[prop]
}

func (m *Manager) stateLocked(prop string) *PropState {
	st, ok := m.states[prop]
	if !ok {
		st = &PropState{Loading: blueprint.NewCell(false), Error: blueprint.NewCell(nil)}
		m.states[prop] = st
	}
	return st
}

// Meta is the per-navigation view over the manager's injected props.
type Meta struct {
	mgr *Manager
}

// Prop returns the injected payload published under name.
func (mt *Meta) Prop(name string) (any, bool) { return mt.mgr.Prop(name) }

// State returns the reactive resolution state for name.
func (mt *Meta) State(name string) *PropState { return mt.mgr.State(name) }

// Refresh re-resolves name bypassing the cache.
func (mt *Meta) Refresh(ctx context.Context, name string, silent bool) error {
	return mt.mgr.Refresh(ctx, name, silent)
}
