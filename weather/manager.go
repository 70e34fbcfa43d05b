package weather

import (
	"log/slog"
	"time"
)

// Config describes the available weather presets and cycling behaviour.
type Config struct {
	Start       Type          `yaml:"start"`
	AutoChange  bool          `yaml:"auto_change"`
	Interval    time.Duration `yaml:"interval"`
	Definitions []Definition  `yaml:"definitions"`
}

type listener struct {
	id int
	fn func(Type, Modifiers)
}

// Manager owns the active weather and broadcasts changes to subscribers.
// It is driven from the game loop and is not safe for concurrent use.
type Manager struct {
	defs       map[Type]Definition
	current    Type
	mods       Modifiers
	autoChange bool
	interval   time.Duration
	timer      time.Duration

	listeners []listener
	nextID    int

	log *slog.Logger
}

func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		mods: Identity(),
		log:  logger.With("component", "weather"),
	}
	m.configure(cfg)
	m.SetWeather(cfg.Start)
	return m
}

func (m *Manager) configure(cfg Config) {
	m.defs = make(map[Type]Definition, len(cfg.Definitions))
	for _, def := range cfg.Definitions {
		m.defs[def.Type] = def
	}
	m.autoChange = cfg.AutoChange
	m.interval = cfg.Interval
}

// Current returns the active modifiers.
func (m *Manager) Current() Modifiers {
	if m == nil {
		return Identity()
	}
	return m.mods
}

func (m *Manager) CurrentType() Type {
	if m == nil {
		return Clear
	}
	return m.current
}

// Definition returns the definition backing the active type, if one exists.
func (m *Manager) Definition() (Definition, bool) {
	if m == nil {
		return Definition{}, false
	}
	def, ok := m.defs[m.current]
	return def, ok
}

// TimeToNextChange returns the time until the next automatic change, or -1
// when auto change is disabled.
func (m *Manager) TimeToNextChange() time.Duration {
	if m == nil || !m.autoChange || m.interval <= 0 {
		return -1
	}
	left := m.interval - m.timer
	if left < 0 {
		return 0
	}
	return left
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(Type, Modifiers)) func() {
	if m == nil || fn == nil {
		return func() {}
	}
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnChanged subscribes to modifier changes only.
func (m *Manager) OnChanged(fn func(Modifiers)) func() {
	if fn == nil {
		return func() {}
	}
	return m.Subscribe(func(_ Type, mods Modifiers) { fn(mods) })
}

// Update advances the auto-change timer.
func (m *Manager) Update(dt time.Duration) {
	if m == nil || !m.autoChange || m.interval <= 0 {
		return
	}
	m.timer += dt
	if m.timer >= m.interval {
		m.Cycle()
	}
}

// SetWeather activates t, resets the auto-change timer and notifies
// subscribers. A type without a definition yields Identity modifiers.
func (m *Manager) SetWeather(t Type) {
	if m == nil {
		return
	}
	m.timer = 0
	m.current = t

	var def *Definition
	if d, ok := m.defs[t]; ok {
		def = &d
	}
	m.mods = FromDefinition(def)
	m.log.Info("weather changed", "type", t.String(), "defined", def != nil, "modifiers", m.mods)
	m.notify()
}

// Cycle advances to the next weather type in declaration order.
func (m *Manager) Cycle() {
	if m == nil {
		return
	}
	m.SetWeather((m.current + 1) % typeCount)
}

// Reload swaps the definitions and cycling settings and re-applies the
// active type so subscribers see the new values.
func (m *Manager) Reload(cfg Config) {
	if m == nil {
		return
	}
	m.configure(cfg)
	m.log.Info("weather definitions reloaded", "count", len(m.defs))
	m.SetWeather(m.current)
}

func (m *Manager) notify() {
	listeners := append([]listener(nil), m.listeners...)
	for _, l := range listeners {
		l.fn(m.current, m.mods)
	}
}
