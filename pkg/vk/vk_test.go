package vk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageNewNestedShape(t *testing.T) {
	ev, ok := ParseMessageNew(json.RawMessage(`{"message":{"from_id":7,"text":"привет"}}`))
	require.True(t, ok)
	assert.EqualValues(t, 7, ev.FromID)
	assert.Equal(t, "привет", ev.Text)
}

func TestParseMessageNewFlatShape(t *testing.T) {
	ev, ok := ParseMessageNew(json.RawMessage(`{"from_id":9,"text":"вопрос"}`))
	require.True(t, ok)
	assert.EqualValues(t, 9, ev.FromID)
	assert.Equal(t, "вопрос", ev.Text)
}

func TestParseMessageNewMalformed(t *testing.T) {
	_, ok := ParseMessageNew(json.RawMessage(`{"text":"no sender"}`))
	assert.False(t, ok, "events without a sender id are dropped")

	_, ok = ParseMessageNew(json.RawMessage(`not json`))
	assert.False(t, ok)
}

func postCallback(t *testing.T, w *Webhook, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/vk/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, w.Callback(e.NewContext(req, rec)))
	return rec
}

func TestWebhookConfirmation(t *testing.T) {
	w := NewWebhook("secret-token", func(Event) { t.Fatal("no event expected") }, nil)
	rec := postCallback(t, w, `{"type":"confirmation"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret-token", rec.Body.String())
}

func TestWebhookMessageNew(t *testing.T) {
	var got Event
	w := NewWebhook("tok", func(ev Event) { got = ev }, nil)
	rec := postCallback(t, w, `{"type":"message_new","object":{"message":{"from_id":5,"text":"вопрос"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.EqualValues(t, 5, got.FromID)
	assert.Equal(t, "вопрос", got.Text)
}

func TestWebhookMalformedEventAcknowledged(t *testing.T) {
	w := NewWebhook("tok", func(Event) { t.Fatal("malformed event must be dropped") }, nil)
	rec := postCallback(t, w, `{"type":"message_new","object":{"text":"нет отправителя"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWebhookUnknownTypeAcknowledged(t *testing.T) {
	w := NewWebhook("tok", func(Event) { t.Fatal("no event expected") }, nil)
	rec := postCallback(t, w, `{"type":"wall_post_new","object":{}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}
