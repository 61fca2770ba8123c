package web

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	sessionName = "icecheck_session"
	filtersName = "icecheck_filters"
	cookieAge   = 30 * 24 * time.Hour
)

// SessionManager keeps the login flag and the last-used filters in signed,
// encrypted cookies. Nothing is held server-side.
type SessionManager struct{ sc *securecookie.SecureCookie }

func NewSessionManager(hashKey, blockKey []byte) *SessionManager {
	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(cookieAge.Seconds()))
	return &SessionManager{sc: sc}
}

func (s *SessionManager) set(w http.ResponseWriter, r *http.Request, name string, value any) error {
	encoded, err := s.sc.Encode(name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name: name, Value: encoded, Path: "/",
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
		Secure: r.TLS != nil,
		MaxAge: int(cookieAge.Seconds()),
	})
	return nil
}

func (s *SessionManager) get(r *http.Request, name string, dst any) bool {
	c, err := r.Cookie(name)
	if err != nil {
		return false
	}
	return s.sc.Decode(name, c.Value, dst) == nil
}

func (s *SessionManager) SetAuthenticated(w http.ResponseWriter, r *http.Request) error {
	return s.set(w, r, sessionName, map[string]string{"auth": "1"})
}

func (s *SessionManager) Authenticated(r *http.Request) bool {
	value := map[string]string{}
	return s.get(r, sessionName, &value) && value["auth"] == "1"
}

func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: sessionName, Value: "", Path: "/", MaxAge: -1,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
}

func (s *SessionManager) SaveForm(w http.ResponseWriter, r *http.Request, f formState) error {
	return s.set(w, r, filtersName, f)
}

func (s *SessionManager) LoadForm(r *http.Request) (formState, bool) {
	var f formState
	if !s.get(r, filtersName, &f) {
		return formState{}, false
	}
	return f, true
}
