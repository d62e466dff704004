// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commonmark

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"rsc.io/commonmark/ast"
	"rsc.io/commonmark/config"
	"rsc.io/commonmark/delim"
	"rsc.io/commonmark/internal/plist"
)

// ErrFrozen is wrapped by the errors returned when an [Environment]
// is modified after it has been initialized.
var ErrFrozen = errors.New("extensions have already been initialized")

// A StateError reports a modification of an initialized [Environment].
type StateError struct {
	Op string // name of the attempted operation
}

func (e *StateError) Error() string {
	return fmt.Sprintf("commonmark: %s: %v", e.Op, ErrFrozen)
}

func (e *StateError) Unwrap() error {
	return ErrFrozen
}

// A Builder is the setup-time view of an [Environment]
// handed to [Extension.Register].
type Builder interface {
	AddBlockParser(p BlockParser, priority int) error
	AddInlineParser(p InlineParser, priority int) error
	AddDelimiterProcessor(p delim.Processor) error
	AddRenderer(kind ast.Kind, r NodeRenderer, priority int) error
	AddEventListener(l Listener, priority int) error
	AddExtension(ext Extension) error
	Config() config.Reader
}

// Env is the read-only view of an initialized [Environment]
// handed to components that implement [EnvironmentAware].
type Env interface {
	Config() config.Reader
	BlockParsers() []BlockParser
	InlineParsers() []InlineParser
	InlineParsersFor(ch rune) []InlineParser
	DelimiterProcessors() *delim.Collection
	RenderersFor(kind ast.Kind) []NodeRenderer
	Dispatch(ev Event) Event
}

// EnvironmentAware is implemented by components that want a handle
// on the environment they are added to.
type EnvironmentAware interface {
	SetEnvironment(env Env)
}

// ConfigurationAware is implemented by components that want to read
// the configuration. The reader is handed over when the component is
// added, before the configuration is frozen, so components should
// read from it when they run rather than when they receive it.
type ConfigurationAware interface {
	SetConfiguration(cfg config.Reader)
}

// An Environment holds everything a conversion pipeline is made of:
// configuration, block and inline parsers, delimiter processors,
// renderers, and event listeners.
//
// An Environment is set up by adding components and extensions.
// The first call to a read accessor initializes it: pending extensions
// are registered, the configuration is validated and frozen, and from
// then on every modification fails with a [*StateError].
//
// An Environment is not safe for concurrent setup.
// Once initialized, it may be used by concurrent conversions.
type Environment struct {
	cfg *config.Store

	blockParsers  plist.List[BlockParser]
	inlineParsers plist.List[InlineParser]
	delims        delim.Collection
	renderers     map[ast.Kind]*plist.List[NodeRenderer]
	listeners     plist.List[Listener]
	dispatcher    EventDispatcher

	extensions []Extension // all extensions, in the order added
	pending    []Extension // extensions waiting for Register

	initializing bool
	initialized  bool
	initErr      error

	byTrigger map[rune][]InlineParser

	cacheMu       sync.Mutex
	rendererCache map[ast.Kind][]NodeRenderer
}

// NewEnvironment returns an empty environment: no parsers, processors,
// or renderers, only the core configuration options, with values from cfg.
func NewEnvironment(cfg map[string]any) *Environment {
	e := &Environment{
		cfg:           config.New(defaultOptions()...),
		renderers:     make(map[ast.Kind]*plist.List[NodeRenderer]),
		rendererCache: make(map[ast.Kind][]NodeRenderer),
	}
	if cfg != nil {
		// Cannot fail: the store is not frozen yet.
		e.cfg.Merge(cfg)
	}
	return e
}

// NewCommonMarkEnvironment returns an environment set up with the
// [CoreExtension], which provides the CommonMark parsers and renderers.
func NewCommonMarkEnvironment(cfg map[string]any) *Environment {
	e := NewEnvironment(cfg)
	// Cannot fail: the environment is not initialized yet.
	e.AddExtension(CoreExtension{})
	return e
}

// Config returns a read-only view of the configuration.
func (e *Environment) Config() config.Reader {
	return e.cfg.Reader()
}

// MergeConfig merges cfg into the configuration.
func (e *Environment) MergeConfig(cfg map[string]any) error {
	if err := e.check("MergeConfig"); err != nil {
		return err
	}
	return e.cfg.Merge(cfg)
}

func (e *Environment) check(op string) error {
	if e.initialized {
		tracer().Errorf("%s after initialization", op)
		return &StateError{Op: op}
	}
	return nil
}

// inject hands x the environment and configuration if it asks for them.
func (e *Environment) inject(x any) {
	if a, ok := x.(EnvironmentAware); ok {
		a.SetEnvironment(e)
	}
	if a, ok := x.(ConfigurationAware); ok {
		a.SetConfiguration(e.cfg.Reader())
	}
}

// AddBlockParser adds a block parser with the given priority.
// Parsers with higher priority are tried first.
func (e *Environment) AddBlockParser(p BlockParser, priority int) error {
	if err := e.check("AddBlockParser"); err != nil {
		return err
	}
	e.blockParsers.Add(p, priority)
	e.inject(p)
	return nil
}

// AddInlineParser adds an inline parser with the given priority.
// Parsers with higher priority are tried first.
func (e *Environment) AddInlineParser(p InlineParser, priority int) error {
	if err := e.check("AddInlineParser"); err != nil {
		return err
	}
	e.inlineParsers.Add(p, priority)
	e.inject(p)
	return nil
}

// AddDelimiterProcessor adds a delimiter processor.
// It fails if another processor already claims one of p's characters.
func (e *Environment) AddDelimiterProcessor(p delim.Processor) error {
	if err := e.check("AddDelimiterProcessor"); err != nil {
		return err
	}
	if err := e.delims.Add(p); err != nil {
		return err
	}
	e.inject(p)
	return nil
}

// AddRenderer adds a renderer for nodes of the given kind,
// and of its descendant kinds that have no renderer of their own.
func (e *Environment) AddRenderer(kind ast.Kind, r NodeRenderer, priority int) error {
	if err := e.check("AddRenderer"); err != nil {
		return err
	}
	l := e.renderers[kind]
	if l == nil {
		l = new(plist.List[NodeRenderer])
		e.renderers[kind] = l
	}
	l.Add(r, priority)
	e.inject(r)
	return nil
}

// AddEventListener adds an event listener with the given priority.
func (e *Environment) AddEventListener(l Listener, priority int) error {
	if err := e.check("AddEventListener"); err != nil {
		return err
	}
	e.listeners.Add(l, priority)
	e.inject(l)
	return nil
}

// AddExtension adds ext to the environment.
// If ext is a [ConfigurableExtension], its options are declared at once;
// its Register method runs when the environment is initialized.
func (e *Environment) AddExtension(ext Extension) error {
	if err := e.check("AddExtension"); err != nil {
		return err
	}
	if c, ok := ext.(ConfigurableExtension); ok {
		if err := c.ConfigureSchema(e.cfg); err != nil {
			return fmt.Errorf("configuring extension %T: %w", ext, err)
		}
	}
	e.extensions = append(e.extensions, ext)
	e.pending = append(e.pending, ext)
	return nil
}

// SetEventDispatcher replaces the built-in event dispatch with d.
// When d is set, [Environment.Dispatch] hands every event to d
// and does not call the environment's own listeners.
func (e *Environment) SetEventDispatcher(d EventDispatcher) {
	e.dispatcher = d
}

// Extensions returns the extensions added so far, in order.
func (e *Environment) Extensions() []Extension {
	return e.extensions
}

// Init initializes the environment, if that has not happened yet,
// and returns the error of that initialization, if any.
//
// Initialization registers pending extensions in the order they were
// added. Extensions added during registration are registered too,
// until none are left. An extension that adds itself again every time
// it is registered makes Init loop forever.
// If any delimiter processors were added, the parser that recognizes
// their delimiter runs is added last, at the lowest priority.
// Finally the configuration is validated and frozen.
func (e *Environment) Init() error {
	if e.initialized || e.initializing {
		return e.initErr
	}
	e.initializing = true
	for len(e.pending) > 0 {
		ext := e.pending[0]
		e.pending = e.pending[1:]
		tracer().Debugf("registering extension %T", ext)
		if err := ext.Register(e); err != nil {
			e.initErr = fmt.Errorf("registering extension %T: %w", ext, err)
			tracer().Errorf("%v", e.initErr)
			break
		}
	}
	if e.delims.Count() > 0 {
		p := &delimiterParser{procs: &e.delims}
		e.inlineParsers.Add(p, math.MinInt)
		e.inject(p)
	}
	e.initializing = false
	e.initialized = true

	if err := e.cfg.Freeze(); err != nil && e.initErr == nil {
		e.initErr = err
	}

	// Sort everything now, so that later reads do not write.
	e.blockParsers.Items()
	e.listeners.Items()
	for _, l := range e.renderers {
		l.Items()
	}

	e.byTrigger = make(map[rune][]InlineParser)
	for _, p := range e.inlineParsers.Items() {
		for _, ch := range p.Trigger() {
			e.byTrigger[ch] = append(e.byTrigger[ch], p)
		}
	}
	tracer().Debugf("environment initialized: %d block parsers, %d inline parsers, %d delimiter characters",
		e.blockParsers.Len(), e.inlineParsers.Len(), e.delims.Count())
	return e.initErr
}

// Err returns the error from initialization, if any.
// It initializes the environment if needed.
func (e *Environment) Err() error {
	return e.Init()
}

// BlockParsers returns the block parsers in priority order.
func (e *Environment) BlockParsers() []BlockParser {
	e.Init()
	return e.blockParsers.Items()
}

// InlineParsers returns the inline parsers in priority order.
func (e *Environment) InlineParsers() []InlineParser {
	e.Init()
	return e.inlineParsers.Items()
}

// InlineParsersFor returns, in priority order, the inline parsers
// triggered by ch.
func (e *Environment) InlineParsersFor(ch rune) []InlineParser {
	e.Init()
	return e.byTrigger[ch]
}

// DelimiterProcessors returns the delimiter processors.
func (e *Environment) DelimiterProcessors() *delim.Collection {
	e.Init()
	return &e.delims
}

// RenderersFor returns, in priority order, the renderers for nodes of
// the given kind. If none were added for kind itself, RenderersFor
// returns those of its nearest ancestor kind that has some.
// The result is computed once per kind; later calls return the same slice.
// A kind with no renderers, even inherited, has an empty list.
func (e *Environment) RenderersFor(kind ast.Kind) []NodeRenderer {
	e.Init()
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if rs, ok := e.rendererCache[kind]; ok {
		return rs
	}
	var rs []NodeRenderer
	for k := kind; ; k = k.Parent() {
		if l := e.renderers[k]; l != nil {
			rs = l.Items()
			if k != kind {
				tracer().Debugf("rendering %v with renderers of %v", kind, k)
			}
			break
		}
		if k == ast.KindNone {
			break
		}
	}
	e.rendererCache[kind] = rs
	return rs
}

// ListenersFor returns, in priority order, the listeners matching ev.
func (e *Environment) ListenersFor(ev Event) []Listener {
	e.Init()
	var ls []Listener
	for _, l := range e.listeners.Items() {
		if l.Matches(ev) {
			ls = append(ls, l)
		}
	}
	return ls
}

// Dispatch delivers ev to the matching listeners in priority order,
// stopping early if ev is [Stoppable] and a listener stops it.
// If an [EventDispatcher] was set, Dispatch hands ev to it instead.
// Dispatch returns ev, which listeners may have modified.
func (e *Environment) Dispatch(ev Event) Event {
	e.Init()
	if e.dispatcher != nil {
		return e.dispatcher.Dispatch(ev)
	}
	stop, _ := ev.(Stoppable)
	for _, l := range e.listeners.Items() {
		if stop != nil && stop.PropagationStopped() {
			break
		}
		if l.Matches(ev) {
			l.Handle(ev)
		}
	}
	return ev
}
