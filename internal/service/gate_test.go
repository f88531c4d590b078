package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		in   GateInput
		want Screen
	}{
		{
			"auth unknown stays loading",
			GateInput{Auth: AuthUnknown},
			ScreenLoading,
		},
		{
			"signed out goes to login",
			GateInput{Auth: AuthSignedOut},
			ScreenLogin,
		},
		{
			"signed in, profile unknown stays loading",
			GateInput{Auth: AuthSignedIn, Profile: ProfileUnknown},
			ScreenLoading,
		},
		{
			"signed in, profile missing goes to create profile",
			GateInput{Auth: AuthSignedIn, Profile: ProfileMissing},
			ScreenCreateProfile,
		},
		{
			"profile missing ignores unlocked session",
			GateInput{Auth: AuthSignedIn, Profile: ProfileMissing, SessionUnlocked: true},
			ScreenCreateProfile,
		},
		{
			"locked profile goes to app lock",
			GateInput{Auth: AuthSignedIn, Profile: ProfileLoaded, AppLockEnabled: true},
			ScreenAppLock,
		},
		{
			"unlocked session goes to chat",
			GateInput{Auth: AuthSignedIn, Profile: ProfileLoaded, AppLockEnabled: true, SessionUnlocked: true},
			ScreenChat,
		},
		{
			"no app lock goes to chat",
			GateInput{Auth: AuthSignedIn, Profile: ProfileLoaded},
			ScreenChat,
		},
		{
			"no app lock ignores session flag",
			GateInput{Auth: AuthSignedIn, Profile: ProfileLoaded, SessionUnlocked: true},
			ScreenChat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.in))
		})
	}
}

// Re-running the gate with identical inputs must land on the same screen.
func TestDecideIdempotent(t *testing.T) {
	in := GateInput{Auth: AuthSignedIn, Profile: ProfileLoaded, AppLockEnabled: true}
	first := Decide(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Decide(in))
	}
}

// The unlock event flips only the session flag; the gate must move from
// the lock screen to chat on re-evaluation.
func TestDecideUnlockTransition(t *testing.T) {
	in := GateInput{Auth: AuthSignedIn, Profile: ProfileLoaded, AppLockEnabled: true}
	assert.Equal(t, ScreenAppLock, Decide(in))

	in.SessionUnlocked = true
	assert.Equal(t, ScreenChat, Decide(in))
}
