package vk

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Webhook serves the Callback API alternative to long polling: VK POSTs
// group events to /vk/callback, confirmation is answered with the token.
type Webhook struct {
	confirmToken string
	handle       func(Event)
	log          *slog.Logger
}

func NewWebhook(confirmToken string, handle func(Event), log *slog.Logger) *Webhook {
	if log == nil {
		log = slog.Default()
	}
	return &Webhook{confirmToken: confirmToken, handle: handle, log: log}
}

func (w *Webhook) Callback(c echo.Context) error {
	var body struct {
		Type   string          `json:"type"`
		Object json.RawMessage `json:"object"`
	}
	if err := c.Bind(&body); err != nil {
		return c.String(http.StatusBadRequest, "bad request")
	}

	switch body.Type {
	case "confirmation":
		return c.String(http.StatusOK, w.confirmToken)
	case "message_new":
		ev, ok := ParseMessageNew(body.Object)
		if !ok {
			w.log.Warn("malformed callback event dropped")
			return c.String(http.StatusOK, "ok")
		}
		w.handle(ev)
	}
	// unknown event types are acknowledged so VK stops retrying them
	return c.String(http.StatusOK, "ok")
}
