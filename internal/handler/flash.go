// internal/handler/flash.go
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gurkanbulca/taskdeck/internal/web"
)

const flashCookieName = "taskdeck_flash"

// setFlash stores a one-shot notice that survives exactly one redirect.
func setFlash(w http.ResponseWriter, message, category string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *web.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	category, message, found := strings.Cut(raw, "|")
	if !found {
		return nil
	}
	return &web.Flash{Message: message, Category: category}
}
