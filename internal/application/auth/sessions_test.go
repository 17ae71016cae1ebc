package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
)

func TestSessions_ExpiranYSeBarren(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	reg := auth.NewSessions(time.Hour)
	reg.SetClock(func() time.Time { return now })

	a := reg.Create()
	b := reg.Create()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	now = now.Add(2 * time.Hour)
	_, ok = reg.Get(a.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Sweep())
	assert.Zero(t, reg.Len())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", auth.StateUnauthenticated.String())
	assert.Equal(t, "super_admin", auth.StateSuperAdmin.String())
	assert.Equal(t, "business_user", auth.StateBusinessUser.String())
}
