package session

// State describes where the session is in its lifecycle.
type State string

const (
	// StateInitializing means durable storage has not been consulted yet.
	StateInitializing State = "INITIALIZING"
	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated State = "UNAUTHENTICATED"
	// StateAuthenticating means a login attempt is in flight.
	StateAuthenticating State = "AUTHENTICATING"
	// StateAuthenticated means a decoded token is held.
	StateAuthenticated State = "AUTHENTICATED"
	// StateRefreshing means a silent refresh is in flight. Claims from the
	// previous token remain readable until the refresh settles.
	StateRefreshing State = "REFRESHING"
)
