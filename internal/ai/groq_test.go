package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroq(t *testing.T, handler http.HandlerFunc) *groqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGroqClient("gsk_test").(*groqClient)
	c.endpoint = srv.URL
	return c
}

func sseChunk(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

func TestGroqClient_Stream(t *testing.T) {
	var got groqRequest
	c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, sseChunk("Dear "))
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
		fmt.Fprint(w, sseChunk("hiring "))
		fmt.Fprint(w, sseChunk("manager,"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	text, err := Collect(c.Stream(context.Background(), Request{
		Model:       "llama-3.3-70b-versatile",
		Prompt:      "write",
		Temperature: 0.6,
		TopP:        1,
		MaxTokens:   650,
	}))
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager,", text)

	assert.True(t, got.Stream)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.Equal(t, 650, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "write", got.Messages[0].Content)
}

func TestGroqClient_StatusError(t *testing.T) {
	c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	})

	_, err := Collect(c.Stream(context.Background(), Request{Prompt: "x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestGroqClient_StreamedAPIError(t *testing.T) {
	c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseChunk("partial"))
		fmt.Fprint(w, "data: {\"error\":{\"message\":\"overloaded\"}}\n\n")
	})

	_, err := Collect(c.Stream(context.Background(), Request{Prompt: "x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestGroqClient_StopEarly(t *testing.T) {
	c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseChunk("a"))
		fmt.Fprint(w, sseChunk("b"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var fragments []string
	for frag, err := range c.Stream(context.Background(), Request{Prompt: "x"}) {
		require.NoError(t, err)
		fragments = append(fragments, frag)
		break
	}
	assert.Equal(t, []string{"a"}, fragments)
}
