package services

import (
	"strings"
	"testing"
	"time"

	"github.com/zwinkle/eduslide/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Create_CodeShape(t *testing.T) {
	svc := NewSessionService(newTestDB(t))

	session, err := svc.Create("pres-1")
	require.NoError(t, err)
	assert.Len(t, session.Code, codeLength)
	for _, ch := range session.Code {
		assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected character %q", ch)
	}
	assert.Nil(t, session.EndTime)
}

func TestSessionService_GetByCode(t *testing.T) {
	svc := NewSessionService(newTestDB(t))

	session, err := svc.Create("pres-1")
	require.NoError(t, err)

	found, err := svc.GetByCode(session.Code)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	_, err = svc.GetByCode("NOPE42")
	assert.Error(t, err)
}

func TestSessionService_GetByCode_ExcludesEnded(t *testing.T) {
	svc := NewSessionService(newTestDB(t))

	session, err := svc.Create("pres-1")
	require.NoError(t, err)

	_, err = svc.EndByCode(session.Code)
	require.NoError(t, err)

	_, err = svc.GetByCode(session.Code)
	assert.Error(t, err)
}

func TestSessionService_EndByCode_Idempotent(t *testing.T) {
	svc := NewSessionService(newTestDB(t))

	session, err := svc.Create("pres-1")
	require.NoError(t, err)

	first, err := svc.EndByCode(session.Code)
	require.NoError(t, err)
	require.NotNil(t, first.EndTime)

	time.Sleep(10 * time.Millisecond)

	second, err := svc.EndByCode(session.Code)
	require.NoError(t, err)
	require.NotNil(t, second.EndTime)
	assert.True(t, first.EndTime.Equal(*second.EndTime), "end time must not move on repeat calls")
}

func TestSessionService_DeleteByCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)

	session, err := svc.Create("pres-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByCode(session.Code))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Deleting an unknown code is a no-op, not an error.
	assert.NoError(t, svc.DeleteByCode("NOPE42"))
}
