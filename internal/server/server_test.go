package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-openclaw-mailer/internal/conversation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(submitErr error) (*Server, *[]conversation.Event) {
	var got []conversation.Event
	srv := New("0", true, func(ev conversation.Event) error {
		if submitErr != nil {
			return submitErr
		}
		got = append(got, ev)
		return nil
	})
	return srv, &got
}

func post(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestWebhook_SubmitsTextMessage(t *testing.T) {
	srv, got := newTestServer(nil)
	body := `{"update_id":1,"message":{"message_id":3,"from":{"id":42,"is_bot":false,"first_name":"H"},"chat":{"id":42,"type":"private"},"date":0,"text":"hr@example.com"}}`

	w := post(t, srv.Router(), body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	require.Len(t, *got, 1)
	assert.Equal(t, conversation.Event{UserID: 42, ChatID: 42, Kind: conversation.EventText, Text: "hr@example.com"}, (*got)[0])
}

func TestWebhook_SubmitsCallback(t *testing.T) {
	srv, got := newTestServer(nil)
	body := `{"update_id":2,"callback_query":{"id":"cb","from":{"id":42,"is_bot":false,"first_name":"H"},"message":{"message_id":9,"chat":{"id":42,"type":"private"},"date":0,"text":"Choose"},"data":"send_email"}}`

	w := post(t, srv.Router(), body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *got, 1)
	assert.Equal(t, conversation.EventCallback, (*got)[0].Kind)
	assert.Equal(t, conversation.CallbackSend, (*got)[0].CallbackData)
	assert.Equal(t, 9, (*got)[0].MessageID)
}

func TestWebhook_IgnoresUnusableUpdates(t *testing.T) {
	srv, got := newTestServer(nil)

	w := post(t, srv.Router(), `{"update_id":3}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Empty(t, *got)
}

func TestWebhook_MalformedBody(t *testing.T) {
	srv, got := newTestServer(nil)

	w := post(t, srv.Router(), `{not json`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Empty(t, *got)
}

func TestWebhook_SubmitFailure(t *testing.T) {
	srv, _ := newTestServer(errors.New("dispatcher stopped"))
	body := `{"update_id":4,"message":{"message_id":3,"from":{"id":1,"is_bot":false,"first_name":"H"},"chat":{"id":1,"type":"private"},"date":0,"text":"hi"}}`

	w := post(t, srv.Router(), body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
