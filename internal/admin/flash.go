package admin

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const flashCookie = "article_admin_flash"

// flashMaxAge bounds how long an unread flash survives, in seconds.
const flashMaxAge = 60

// Flash kinds map onto toast styles.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot toast carried across a redirect.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Flash{})
}

// flashStore keeps flashes in a signed cookie session. Cookies that fail
// verification are treated as empty.
type flashStore struct {
	store *sessions.CookieStore
}

// newFlashStore signs with key, or with a random per-process key when key is
// empty.
func newFlashStore(key []byte) *flashStore {
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.MaxAge(flashMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return &flashStore{store: store}
}

func (f *flashStore) set(w http.ResponseWriter, r *http.Request, kind, message string) error {
	// a tampered cookie yields a fresh session, which is what we want here
	session, _ := f.store.Get(r, flashCookie)
	session.AddFlash(Flash{Kind: kind, Message: message})
	return session.Save(r, w)
}

// pop reads the pending flash and clears it.
func (f *flashStore) pop(w http.ResponseWriter, r *http.Request) *Flash {
	if _, err := r.Cookie(flashCookie); err != nil {
		return nil
	}
	session, err := f.store.Get(r, flashCookie)
	session.Options.MaxAge = -1
	_ = session.Save(r, w)
	if err != nil {
		return nil
	}

	for _, v := range session.Flashes() {
		if flash, ok := v.(Flash); ok && flash.Message != "" {
			return &flash
		}
	}
	return nil
}

// redirectWithFlash queues a toast and sends the browser to target.
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	if err := s.flashes.set(w, r, kind, message); err != nil {
		s.logger.Warn("flash not saved", zap.Error(err))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
