package editor

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rm-hull/glitch-lab/internal/raster"
	"github.com/sirupsen/logrus"
)

var ErrNoSession = errors.New("no such session")

// Workspace is one session together with the scheduler that renders it.
type Workspace struct {
	Session   *EditorSession
	Scheduler *RenderScheduler
}

// Manager tracks the open sessions. Like the sessions themselves it belongs
// to the loop goroutine and holds no locks.
type Manager struct {
	clock      FrameClock
	device     raster.DeviceClass
	log        logrus.FieldLogger
	workspaces map[string]*Workspace
}

func NewManager(clock FrameClock, device raster.DeviceClass, logger logrus.FieldLogger) *Manager {
	return &Manager{
		clock:      clock,
		device:     device,
		log:        logger,
		workspaces: make(map[string]*Workspace),
	}
}

// Create opens a session for the source and schedules its first render.
func (m *Manager) Create(src *raster.SourceImage) *Workspace {
	id := uuid.NewString()
	session := NewEditorSession(id, m.device, m.log)
	session.SetSource(src)

	ws := &Workspace{Session: session}
	ws.Scheduler = NewRenderScheduler(m.clock, func() {
		// a frame queued before Delete or Evict still fires
		if m.workspaces[id] != ws {
			return
		}
		if err := session.Render(); err != nil {
			m.log.WithError(err).WithField("session", id).Error("render failed")
		}
	})
	m.workspaces[id] = ws
	ws.Scheduler.Schedule()

	m.log.WithFields(logrus.Fields{
		"session": id,
		"width":   src.Width(),
		"height":  src.Height(),
	}).Info("session created")
	return ws
}

func (m *Manager) Get(id string) (*Workspace, error) {
	ws, ok := m.workspaces[id]
	if !ok {
		return nil, ErrNoSession
	}
	return ws, nil
}

func (m *Manager) Delete(id string) error {
	if _, ok := m.workspaces[id]; !ok {
		return ErrNoSession
	}
	delete(m.workspaces, id)
	return nil
}

func (m *Manager) Len() int {
	return len(m.workspaces)
}

// Evict closes sessions that have been idle for longer than ttl and returns
// how many were removed.
func (m *Manager) Evict(now time.Time, ttl time.Duration) int {
	evicted := 0
	for id, ws := range m.workspaces {
		if ws.Session.IdleFor(now) > ttl {
			delete(m.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.log.WithFields(logrus.Fields{
			"evicted":   evicted,
			"remaining": len(m.workspaces),
		}).Info("evicted idle sessions")
	}
	return evicted
}
