package session

// State is everything the server knows about a browser or API client between
// requests. Handlers receive it and return a new value; it is never mutated in place.
type State struct {
	Authenticated bool   `json:"authenticated"`
	AccountID     string `json:"account_id,omitempty"`
	Tenant        string `json:"tenant,omitempty"`
}

// Anonymous is the state of a client that has not logged in.
func Anonymous() State { return State{} }

// Authenticator resolves credentials to a tenant.
type Authenticator interface {
	Authenticate(accountID, secret string) (string, error)
}

// Login returns the authenticated state for the given credentials. On failure
// the current state is returned unchanged together with the error.
func Login(current State, auth Authenticator, accountID, secret string) (State, error) {
	tenant, err := auth.Authenticate(accountID, secret)
	if err != nil {
		return current, err
	}
	return State{Authenticated: true, AccountID: accountID, Tenant: tenant}, nil
}

func Logout(State) State { return Anonymous() }
