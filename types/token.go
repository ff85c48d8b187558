package types

// TokenSource resolves a bearer token used to authenticate the WebSocket
// endpoint via the ?token= query parameter.
//
// The session consults its configured sources in order and uses the first
// non-empty token. If every source returns an empty string the connection
// is made unauthenticated.
type TokenSource interface {
	// Token returns the current bearer token, or an empty string when this
	// source has no credentials.
	Token() string
}

// StaticTokenSource returns a TokenSource that always yields the given token.
func StaticTokenSource(token string) TokenSource {
	return staticToken(token)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
