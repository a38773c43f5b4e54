// Package flash passes one-shot notifications from a redirecting POST to
// the page that renders next, via a short-lived cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

// Message is a single pending notification.
type Message struct {
	Level string `json:"level"` // success, warning, danger
	Text  string `json:"text"`
}

// Set replaces any pending flash with the given message.
func Set(w http.ResponseWriter, level, text string) {
	b, err := json.Marshal([]Message{{Level: level, Text: text}})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending messages, if any, and clears the cookie.
func Pop(w http.ResponseWriter, r *http.Request) []Message {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}
	return msgs
}
