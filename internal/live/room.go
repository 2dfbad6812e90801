package live

import (
	"math/rand"
	"sync"
	"time"
)

// Participant is the ephemeral roster entry for one connection. StudentID is
// the stable, client-supplied identity that survives reconnects and keys
// scoring; ConnID does not survive a reconnect.
type Participant struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	ConnID    string `json:"-"`
}

// BubbleClick is one click record in a bubble-quiz log.
type BubbleClick struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Correct bool    `json:"correct"`
}

// Room holds all ephemeral state for one live session code: the roster plus
// per-slide activity tallies. It dies with the session.
type Room struct {
	Code string

	mu            sync.Mutex
	sessionID     string
	teacherConnID string
	participants  map[string]Participant
	polls         map[string]map[string]int
	wordClouds    map[string][]string
	bubbleClicks  map[string][]BubbleClick

	// Grace-timer bookkeeping: graceGen invalidates an armed timer that
	// fires after it was cancelled.
	graceTimer *time.Timer
	graceGen   uint64
	ended      bool
}

func newRoom(code string) *Room {
	return &Room{
		Code:         code,
		participants: make(map[string]Participant),
		polls:        make(map[string]map[string]int),
		wordClouds:   make(map[string][]string),
		bubbleClicks: make(map[string][]BubbleClick),
	}
}

func (r *Room) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

func (r *Room) setSessionID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = id
}

func (r *Room) setTeacher(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teacherConnID = connID
}

func (r *Room) isTeacher(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teacherConnID != "" && r.teacherConnID == connID
}

func (r *Room) addParticipant(p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[p.ConnID] = p
}

func (r *Room) removeParticipant(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[connID]; !ok {
		return false
	}
	delete(r.participants, connID)
	return true
}

func (r *Room) hasConn(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.teacherConnID == connID {
		return true
	}
	_, ok := r.participants[connID]
	return ok
}

func (r *Room) roster() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		list = append(list, p)
	}
	return list
}

func (r *Room) randomParticipant() (Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.participants) == 0 {
		return Participant{}, false
	}
	idx := rand.Intn(len(r.participants))
	for _, p := range r.participants {
		if idx == 0 {
			return p, true
		}
		idx--
	}
	return Participant{}, false
}

// resetPoll seeds a zeroed tally for every configured option and returns it.
func (r *Room) resetPoll(slideID string, options []string) map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	tally := make(map[string]int, len(options))
	for _, opt := range options {
		tally[opt] = 0
	}
	r.polls[slideID] = tally
	return copyTally(tally)
}

// countVote increments a recognized option and returns the updated tally.
// Unknown options and polls that were never started report ok=false.
func (r *Room) countVote(slideID, option string) (map[string]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tally, ok := r.polls[slideID]
	if !ok {
		return nil, false
	}
	if _, ok := tally[option]; !ok {
		return nil, false
	}
	tally[option]++
	return copyTally(tally), true
}

func (r *Room) resetWordCloud(slideID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wordClouds[slideID] = []string{}
}

func (r *Room) addWord(slideID, word string) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	words, ok := r.wordClouds[slideID]
	if !ok {
		return nil, false
	}
	words = append(words, word)
	r.wordClouds[slideID] = words
	return append([]string(nil), words...), true
}

func (r *Room) resetBubbleClicks(slideID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bubbleClicks[slideID] = []BubbleClick{}
}

func (r *Room) addBubbleClick(slideID string, click BubbleClick) ([]BubbleClick, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clicks, ok := r.bubbleClicks[slideID]
	if !ok {
		return nil, false
	}
	clicks = append(clicks, click)
	r.bubbleClicks[slideID] = clicks
	return append([]BubbleClick(nil), clicks...), true
}

func copyTally(tally map[string]int) map[string]int {
	out := make(map[string]int, len(tally))
	for k, v := range tally {
		out[k] = v
	}
	return out
}

// Registry is the process-wide map from session code to live room state.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (reg *Registry) Get(code string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.rooms[code]
}

func (reg *Registry) GetOrCreate(code string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[code]
	if !ok {
		room = newRoom(code)
		reg.rooms[code] = room
	}
	return room
}

func (reg *Registry) Delete(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, code)
}

// FindByConn locates the room a connection belongs to, teacher or student.
func (reg *Registry) FindByConn(connID string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, room := range reg.rooms {
		if room.hasConn(connID) {
			return room
		}
	}
	return nil
}
