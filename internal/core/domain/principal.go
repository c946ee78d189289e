package domain

// ClientKind distinguishes API (token) clients from browser (session) clients.
type ClientKind string

const (
	ClientAPI     ClientKind = "api"
	ClientBrowser ClientKind = "browser"
)

// CredentialKind names what authenticated a request.
type CredentialKind string

const (
	CredentialNone    CredentialKind = "none"
	CredentialToken   CredentialKind = "token"
	CredentialSession CredentialKind = "session"
)

// Principal is the identity resolved for the current request. Exactly one of
// Token or Session is set.
type Principal struct {
	User *User

	Token      *Token
	TokenValue string

	Session *Session
}

// Kind reports which credential backs the principal.
func (p *Principal) Kind() CredentialKind {
	switch {
	case p == nil:
		return CredentialNone
	case p.Token != nil:
		return CredentialToken
	case p.Session != nil:
		return CredentialSession
	default:
		return CredentialNone
	}
}

// Authenticated reports whether the principal resolved to a user.
func (p *Principal) Authenticated() bool {
	return p != nil && p.User != nil
}
