package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "fabcatalogue-session"

// Sessions stores the access token in a signed cookie for browser clients
// that cannot set an Authorization header.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions signs cookies with secret; config.Validate rejects an empty one.
func NewSessions(secret string, maxAge int) *Sessions {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options.HttpOnly = true
	s.Options.SameSite = http.SameSiteLaxMode
	s.Options.Path = "/"
	s.MaxAge(maxAge)
	return &Sessions{store: s}
}

func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values["token"] = token
	return session.Save(r, w)
}

func (s *Sessions) Token(r *http.Request) string {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values["token"].(string)
	return token
}

func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	delete(session.Values, "token")
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
