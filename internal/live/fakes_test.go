package live

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/zwinkle/eduslide/internal/models"
	"github.com/zwinkle/eduslide/internal/services"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeConn records every frame written to it.
type fakeConn struct {
	mu         sync.Mutex
	frames     []WSMessage
	closed     bool
	failWrites bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write on broken connection")
	}
	c.frames = append(c.frames, msg)
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received(eventType string) []WSMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []WSMessage
	for _, f := range c.frames {
		if f.Type == eventType {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeConn) lastData(t *testing.T, eventType string) map[string]interface{} {
	t.Helper()
	frames := c.received(eventType)
	require.NotEmpty(t, frames, "expected at least one %s frame", eventType)
	data, ok := frames[len(frames)-1].Data.(map[string]interface{})
	require.True(t, ok, "frame data for %s is not an object", eventType)
	return data
}

type fakeSessions struct {
	mu      sync.Mutex
	byCode  map[string]*models.Session
	deleted []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byCode: make(map[string]*models.Session)}
}

func (f *fakeSessions) add(code, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byCode[code] = &models.Session{ID: id, Code: code, StartTime: time.Now()}
}

func (f *fakeSessions) GetByCode(code string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byCode[code]
	if !ok || session.EndTime != nil {
		return nil, errors.New("session not found or has expired")
	}
	return session, nil
}

func (f *fakeSessions) EndByCode(code string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.byCode[code]
	if !ok {
		return nil, errors.New("session not found")
	}
	if session.EndTime == nil {
		now := time.Now()
		session.EndTime = &now
	}
	return session, nil
}

func (f *fakeSessions) DeleteByCode(code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byCode, code)
	f.deleted = append(f.deleted, code)
	return nil
}

func (f *fakeSessions) deletedCodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeSessions) endTime(code string) *time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.byCode[code]; ok {
		return session.EndTime
	}
	return nil
}

type fakeSlides struct {
	mu   sync.Mutex
	byID map[string]*models.Slide
}

func newFakeSlides() *fakeSlides {
	return &fakeSlides{byID: make(map[string]*models.Slide)}
}

func (f *fakeSlides) add(t *testing.T, id, kind string, settings interface{}) {
	t.Helper()
	raw, err := json.Marshal(settings)
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id] = &models.Slide{
		ID:              id,
		InteractiveType: kind,
		Settings:        datatypes.JSON(raw),
	}
}

func (f *fakeSlides) GetSlideByID(slideID string) (*models.Slide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slide, ok := f.byID[slideID]
	if !ok {
		return nil, errors.New("slide not found")
	}
	return slide, nil
}

// fakeLedger keeps points in memory with insertion order for tie-breaking.
type fakeLedger struct {
	mu     sync.Mutex
	order  []string
	points map[string]int
	names  map[string]string
	ids    map[string]string
	err    error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		points: make(map[string]int),
		names:  make(map[string]string),
		ids:    make(map[string]string),
	}
}

func ledgerKey(sessionID, studentID string) string {
	return sessionID + "/" + studentID
}

func (f *fakeLedger) AddPoints(sessionID, studentID, studentName string, delta int) (*models.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	key := ledgerKey(sessionID, studentID)
	if _, ok := f.points[key]; !ok {
		f.order = append(f.order, key)
		f.names[key] = studentName
		f.ids[key] = studentID
	}
	f.points[key] += delta
	return &models.Score{
		SessionID:   sessionID,
		StudentID:   studentID,
		StudentName: f.names[key],
		Points:      f.points[key],
	}, nil
}

func (f *fakeLedger) Leaderboard(sessionID string, limit int) ([]services.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var entries []services.LeaderboardEntry
	for _, key := range f.order {
		if len(key) < len(sessionID)+1 || key[:len(sessionID)+1] != sessionID+"/" {
			continue
		}
		entries = append(entries, services.LeaderboardEntry{
			StudentName: f.names[key],
			StudentID:   f.ids[key],
			Points:      f.points[key],
		})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Points > entries[b].Points
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeLedger) pointsFor(sessionID, studentID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points[ledgerKey(sessionID, studentID)]
}

func newTestEngine(grace time.Duration) (*Engine, *fakeSessions, *fakeSlides, *fakeLedger) {
	sessions := newFakeSessions()
	slides := newFakeSlides()
	ledger := newFakeLedger()
	engine := NewEngine(NewHub(), sessions, slides, ledger, grace)
	return engine, sessions, slides, ledger
}

func frame(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(inboundMessage{Type: eventType, Data: data})
	require.NoError(t, err)
	return raw
}

func joinTeacher(t *testing.T, engine *Engine, code string) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	client := NewClient(conn)
	engine.HandleMessage(client, frame(t, EventTeacherJoin, map[string]string{"session_code": code}))
	return client, conn
}

func joinStudent(t *testing.T, engine *Engine, code, name, studentID string) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	client := NewClient(conn)
	engine.HandleMessage(client, frame(t, EventJoinSession, map[string]string{
		"session_code": code,
		"name":         name,
		"student_id":   studentID,
	}))
	return client, conn
}
