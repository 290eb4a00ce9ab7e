// Package audio tracks the volume of the default sound devices by listening
// to sound server events and keeps the result ready for the status line.
package audio

import (
	"context"
	"sync"
	"sync/atomic"

	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/logger"
)

// Phase is the connection state of a Monitor.
type Phase int32

const (
	Connecting Phase = iota
	Authorizing
	SettingName
	Ready
	Failed
	Closed
)

func (p Phase) String() string {
	switch p {
	case Connecting:
		return "connecting"
	case Authorizing:
		return "authorizing"
	case SettingName:
		return "setting_name"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is an established connection to a sound server. Requests are made
// from the monitor goroutine only. The notify and closed callbacks may run on
// any goroutine: notify after a change event, closed once the server hangs up.
type Conn interface {
	Authorize() error
	SetName(name string) error
	Subscribe(notify, closed func()) error
	Defaults() (sink, source string, err error)
	Sinks() ([]Device, error)
	Sources() ([]Device, error)
	Close() error
}

// Dialer opens a connection to server. An empty server means the default.
type Dialer func(server string) (Conn, error)

type Config struct {
	Server     string
	ClientName string
	// Sink and Source select a device by index or name. Empty follows the
	// server default.
	Sink    string
	Source  string
	Volume  VolumeText
	Unknown string
}

// Monitor owns the sound server connection and publishes a State after
// every change notification.
type Monitor struct {
	cfg   Config
	dial  Dialer
	log   logger.Logger
	store *Store
	phase atomic.Int32

	// pending coalesces notifications; one refresh covers any number of
	// events received while the previous one ran.
	pending chan struct{}
	dropped chan struct{}

	mu   sync.Mutex
	conn Conn
}

func NewMonitor(cfg Config, dial Dialer) *Monitor {
	m := &Monitor{
		cfg:     cfg,
		dial:    dial,
		log:     logger.Default(),
		store:   NewStore(Unavailable(cfg.Unknown)),
		pending: make(chan struct{}, 1),
		dropped: make(chan struct{}, 1),
	}
	m.phase.Store(int32(Connecting))

	return m
}

func (m *Monitor) Phase() Phase {
	return Phase(m.phase.Load())
}

// Snapshot returns the most recently published State.
func (m *Monitor) Snapshot() State {
	return m.store.Load()
}

// Run connects and processes change notifications until ctx is done or the
// connection fails or drops. A failure is final: the State is reset to the unknown
// sentinel and Run returns nil so the rest of the status line keeps going.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.connect(); err != nil {
		m.fail(err)
		return nil
	}

	if err := m.refresh(); err != nil {
		m.fail(err)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-m.dropped:
			m.fail(errors.New().New(ErrConnectionLost))
			return nil
		case <-m.pending:
			if err := m.refresh(); err != nil {
				m.fail(err)
				return nil
			}
		}
	}
}

func (m *Monitor) connect() error {
	errFactory := errors.New()

	m.setPhase(Connecting)
	conn, err := m.dial(m.cfg.Server)
	if err != nil {
		return errFactory.WrapWithData(ErrConnectFailed, err, m.cfg.Server)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	m.setPhase(Authorizing)
	if err := conn.Authorize(); err != nil {
		return errFactory.Wrap(ErrAuthFailed, err)
	}

	m.setPhase(SettingName)
	if err := conn.SetName(m.cfg.ClientName); err != nil {
		return errFactory.WrapWithData(ErrSetNameFailed, err, m.cfg.ClientName)
	}

	if err := conn.Subscribe(m.notify, m.lost); err != nil {
		return errFactory.Wrap(ErrSubscribeFailed, err)
	}
	m.setPhase(Ready)

	return nil
}

// notify runs on the connection's reader goroutine and must not block or
// issue requests.
func (m *Monitor) notify() {
	select {
	case m.pending <- struct{}{}:
	default:
	}
}

func (m *Monitor) lost() {
	select {
	case m.dropped <- struct{}{}:
	default:
	}
}

// refresh enumerates devices and publishes the resulting State. A device
// that cannot be found keeps its previous values.
func (m *Monitor) refresh() error {
	errFactory := errors.New()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return errFactory.New(ErrEnumerateFailed)
	}

	sinkName, sourceName := m.cfg.Sink, m.cfg.Source
	if sinkName == "" || sourceName == "" {
		defSink, defSource, err := conn.Defaults()
		if err != nil {
			return errFactory.Wrap(ErrEnumerateFailed, err)
		}
		if sinkName == "" {
			sinkName = defSink
		}
		if sourceName == "" {
			sourceName = defSource
		}
	}

	sinks, err := conn.Sinks()
	if err != nil {
		return errFactory.WrapWithData(ErrEnumerateFailed, err, "sinks")
	}
	sources, err := conn.Sources()
	if err != nil {
		return errFactory.WrapWithData(ErrEnumerateFailed, err, "sources")
	}

	next := m.store.Load()
	if sink, ok := match(sinks, sinkName); ok {
		next.Volume = sink.Text(m.cfg.Volume)
		next.Profile = sink.Name
	} else {
		m.log.Debug().Str("sink", sinkName).Msg("Sink not found")
	}
	if source, ok := match(sources, sourceName); ok {
		next.MicVolume = source.Text(m.cfg.Volume)
	} else {
		m.log.Debug().Str("source", sourceName).Msg("Source not found")
	}
	m.store.Publish(next)

	return nil
}

func (m *Monitor) fail(err error) {
	if appErr, ok := err.(errors.Error); ok {
		m.log.ErrorWithCode(appErr).Msg("Audio monitor stopped")
	} else {
		m.log.Error().Err(err).Msg("Audio monitor stopped")
	}

	m.store.Publish(Unavailable(m.cfg.Unknown))
	m.release()
	m.setPhase(Failed)
}

// Close releases the connection. It is safe to call more than once and
// leaves a failed monitor in the Failed phase.
func (m *Monitor) Close() {
	m.release()
	m.phase.CompareAndSwap(int32(Ready), int32(Closed))
}

func (m *Monitor) release() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		m.log.Debug().Err(err).Msg("Failed to close audio connection")
	}
}

func (m *Monitor) setPhase(p Phase) {
	m.phase.Store(int32(p))
	m.log.Debug().Str("phase", p.String()).Msg("Audio connection phase")
}
