package domain

// SessionState describes where the session manager is in its lifecycle.
type SessionState string

const (
	SessionLoading       SessionState = "loading"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// RestoreMode controls how a persisted session record is treated on startup.
type RestoreMode string

const (
	// RestoreTrust accepts the persisted user record without looking it up again.
	RestoreTrust RestoreMode = "trust"
	// RestoreRevalidate resolves the persisted email against the identity store.
	RestoreRevalidate RestoreMode = "revalidate"
)

// ParseRestoreMode falls back to RestoreTrust for unknown values.
func ParseRestoreMode(value string) RestoreMode {
	if RestoreMode(value) == RestoreRevalidate {
		return RestoreRevalidate
	}
	return RestoreTrust
}
