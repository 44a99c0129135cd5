package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaChat(t *testing.T) {
	var got ollamaChatReq
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"namaste"},"done":true}`))
	})

	p := NewOllamaProvider(srv.URL, "", 0.7, 650, 0)
	reply, err := p.Chat(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, "namaste", reply)
	assert.Equal(t, "llama3:latest", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 650, got.Options.NumPredict)
	require.Len(t, got.Messages, 2)
}

func TestOllamaChat_Status(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})
	p := NewOllamaProvider(srv.URL, "x", 0, 0, 0)
	_, err := p.Chat(context.Background(), testMessages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: status 404: model not found")
}
