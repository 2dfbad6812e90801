package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	reg := NewRegistry()

	assert.Nil(t, reg.Get("ABC123"))

	room := reg.GetOrCreate("ABC123")
	require.NotNil(t, room)
	assert.Same(t, room, reg.GetOrCreate("ABC123"))
	assert.Same(t, room, reg.Get("ABC123"))

	reg.Delete("ABC123")
	assert.Nil(t, reg.Get("ABC123"))
}

func TestRegistry_FindByConn(t *testing.T) {
	reg := NewRegistry()
	room := reg.GetOrCreate("ABC123")
	room.setTeacher("teacher-conn")
	room.addParticipant(Participant{Name: "Alice", StudentID: "s1", ConnID: "student-conn"})

	assert.Same(t, room, reg.FindByConn("teacher-conn"))
	assert.Same(t, room, reg.FindByConn("student-conn"))
	assert.Nil(t, reg.FindByConn("stranger"))
}

func TestRoom_RosterAndRemoval(t *testing.T) {
	room := newRoom("ABC123")
	room.addParticipant(Participant{Name: "Alice", StudentID: "s1", ConnID: "c1"})
	room.addParticipant(Participant{Name: "Bob", StudentID: "s2", ConnID: "c2"})

	assert.Len(t, room.roster(), 2)

	assert.True(t, room.removeParticipant("c1"))
	assert.False(t, room.removeParticipant("c1"), "second removal is a no-op")
	assert.Len(t, room.roster(), 1)
}

func TestRoom_ReconnectReplacesRosterEntry(t *testing.T) {
	room := newRoom("ABC123")
	room.addParticipant(Participant{Name: "Alice", StudentID: "s1", ConnID: "c1"})
	room.addParticipant(Participant{Name: "Alice", StudentID: "s1", ConnID: "c2"})

	// Same student on a fresh connection is two roster entries until the old
	// connection drops; identity for scoring stays the student id.
	assert.Len(t, room.roster(), 2)
	room.removeParticipant("c1")

	roster := room.roster()
	require.Len(t, roster, 1)
	assert.Equal(t, "c2", roster[0].ConnID)
	assert.Equal(t, "s1", roster[0].StudentID)
}

func TestRoom_RandomParticipant(t *testing.T) {
	room := newRoom("ABC123")

	_, ok := room.randomParticipant()
	assert.False(t, ok, "empty roster has nobody to pick")

	room.addParticipant(Participant{Name: "Alice", StudentID: "s1", ConnID: "c1"})
	picked, ok := room.randomParticipant()
	require.True(t, ok)
	assert.Equal(t, "Alice", picked.Name)
}

func TestRoom_CountVoteRequiresStartedPoll(t *testing.T) {
	room := newRoom("ABC123")

	_, ok := room.countVote("slide-1", "A")
	assert.False(t, ok, "poll never started")

	tally := room.resetPoll("slide-1", []string{"A", "B"})
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, tally)

	tally, ok = room.countVote("slide-1", "A")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"A": 1, "B": 0}, tally)

	_, ok = room.countVote("slide-1", "C")
	assert.False(t, ok, "unknown option")

	// Restarting the poll clears the tally.
	tally = room.resetPoll("slide-1", []string{"A", "B"})
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, tally)
}

func TestRoom_CountVoteReturnsDetachedCopy(t *testing.T) {
	room := newRoom("ABC123")
	room.resetPoll("slide-1", []string{"A"})

	tally, ok := room.countVote("slide-1", "A")
	require.True(t, ok)
	tally["A"] = 99

	fresh, ok := room.countVote("slide-1", "A")
	require.True(t, ok)
	assert.Equal(t, 2, fresh["A"])
}

func TestRoom_AddWordRequiresStartedCloud(t *testing.T) {
	room := newRoom("ABC123")

	_, ok := room.addWord("slide-1", "fun")
	assert.False(t, ok)

	room.resetWordCloud("slide-1")
	words, ok := room.addWord("slide-1", "fun")
	require.True(t, ok)
	assert.Equal(t, []string{"fun"}, words)

	words, ok = room.addWord("slide-1", "fun")
	require.True(t, ok)
	assert.Equal(t, []string{"fun", "fun"}, words)
}

func TestRoom_AddBubbleClickRequiresStartedQuiz(t *testing.T) {
	room := newRoom("ABC123")

	_, ok := room.addBubbleClick("slide-1", BubbleClick{Name: "Alice"})
	assert.False(t, ok)

	room.resetBubbleClicks("slide-1")
	clicks, ok := room.addBubbleClick("slide-1", BubbleClick{Name: "Alice", Correct: true})
	require.True(t, ok)
	require.Len(t, clicks, 1)
	assert.True(t, clicks[0].Correct)
}

func TestRoom_TeacherConnTracking(t *testing.T) {
	room := newRoom("ABC123")

	assert.False(t, room.isTeacher("c1"), "no teacher bound yet")

	room.setTeacher("c1")
	assert.True(t, room.isTeacher("c1"))
	assert.False(t, room.isTeacher("c2"))
	assert.True(t, room.hasConn("c1"))
}
