package api

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const sessionTTL = 30 * time.Minute

// Session caches one login cookie per user for the duration of a run.
type Session struct {
	cookies *cache.Cache
}

func NewSession() *Session {
	return &Session{cookies: cache.New(sessionTTL, sessionTTL)}
}

func (s *Session) Cookie(userID string) (string, bool) {
	v, ok := s.cookies.Get(userID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (s *Session) Store(userID, cookie string) {
	s.cookies.SetDefault(userID, cookie)
}

// Forget drops the cookie of userID, e.g. after the server rejected it.
func (s *Session) Forget(userID string) {
	s.cookies.Delete(userID)
}

func (s *Session) Len() int {
	return s.cookies.ItemCount()
}
