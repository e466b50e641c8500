package echoapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// One-shot notices carried across a redirect in the `messages` cookie.

const messagesCookie = "messages"

const (
	levelSuccess = "success"
	levelError   = "error"
)

type Message struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func readMessages(ctx echo.Context) []Message {
	msgs := make([]Message, 0)
	cookie, err := ctx.Cookie(messagesCookie)
	if err != nil || cookie.Value == "" {
		return msgs
	}
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return msgs
	}
	if err = json.Unmarshal(raw, &msgs); err != nil {
		return make([]Message, 0)
	}
	return msgs
}

func writeMessages(ctx echo.Context, msgs []Message) {
	cookie := &http.Cookie{Name: messagesCookie, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	if len(msgs) == 0 {
		cookie.MaxAge = -1
	} else {
		raw, _ := json.Marshal(msgs)
		cookie.Value = base64.URLEncoding.EncodeToString(raw)
	}
	ctx.SetCookie(cookie)
}

// addMessage queues a notice for the next page rendered for this client.
func addMessage(ctx echo.Context, level, msg string) {
	writeMessages(ctx, append(readMessages(ctx), Message{Level: level, Message: msg}))
}

// popMessages returns the queued notices and clears them.
func popMessages(ctx echo.Context) []Message {
	msgs := readMessages(ctx)
	if len(msgs) > 0 {
		writeMessages(ctx, nil)
	}
	return msgs
}

// redirectWithMessage answers 303 See Other to path, with a notice for the target page.
func redirectWithMessage(ctx echo.Context, path, level, msg string) error {
	addMessage(ctx, level, msg)
	return ctx.Redirect(http.StatusSeeOther, path)
}
