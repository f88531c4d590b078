package service

// The navigation gate decides which screen a client belongs on after a
// page load or an auth-state change. It is a pure function of its inputs
// and performs no writes, so re-running it with unchanged state always
// lands on the same screen.

type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthSignedOut
	AuthSignedIn
)

type ProfileState int

const (
	ProfileUnknown ProfileState = iota
	ProfileMissing
	ProfileLoaded
)

type Screen string

const (
	ScreenLoading       Screen = "loading"
	ScreenLogin         Screen = "login"
	ScreenCreateProfile Screen = "create-profile"
	ScreenAppLock       Screen = "app-lock"
	ScreenChat          Screen = "chat"
)

// GateInput carries everything the gate looks at. SessionUnlocked is the
// session-scoped app-lock flag, passed explicitly by the caller instead
// of being read from ambient storage.
type GateInput struct {
	Auth            AuthState
	Profile         ProfileState
	AppLockEnabled  bool
	SessionUnlocked bool
}

func Decide(in GateInput) Screen {
	switch in.Auth {
	case AuthUnknown:
		return ScreenLoading
	case AuthSignedOut:
		return ScreenLogin
	}

	switch in.Profile {
	case ProfileUnknown:
		return ScreenLoading
	case ProfileMissing:
		return ScreenCreateProfile
	}

	if in.AppLockEnabled && !in.SessionUnlocked {
		return ScreenAppLock
	}
	return ScreenChat
}
