package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

const flashCookieName = "aura_flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown after a redirect or re-render.
type Flash struct {
	Kind    string
	Message string
}

// flashCodec signs flash cookies so clients cannot inject banner text.
type flashCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

func newFlashCodec(hashKey []byte, secure bool) *flashCodec {
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(300)
	return &flashCodec{sc: sc, secure: secure}
}

// set stores a flash for the next request.
// POST: cookie is written; encode failures are logged and the flash is dropped
func (f *flashCodec) set(w http.ResponseWriter, kind, message string) {
	encoded, err := f.sc.Encode(flashCookieName, Flash{Kind: kind, Message: message})
	if err != nil {
		slog.Error("flash_error", "op", "encode", "error", err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// pop reads and clears the pending flash, if any.
func (f *flashCodec) pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	var flash Flash
	if err := f.sc.Decode(flashCookieName, cookie.Value, &flash); err != nil {
		slog.Warn("flash_error", "op", "decode", "error", err.Error())
		return nil
	}
	return &flash
}

// redirectWithFlash sets a flash and redirects with 303.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, url, kind, message string) {
	flashes.set(w, kind, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}
