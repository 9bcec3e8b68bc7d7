package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsToBotAPI(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bot := NewTelegramWithBase("bot-token", "chat-42", srv.URL)
	require.True(t, bot.Enabled())

	err := bot.Send(context.Background(), "<b>hello</b>")
	require.NoError(t, err)

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-42", gotBody["chat_id"])
	assert.Equal(t, "<b>hello</b>", gotBody["text"])
	assert.Equal(t, "HTML", gotBody["parse_mode"])
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	bot := NewTelegramWithBase("tok", "chat", srv.URL)
	err := bot.Send(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestDisabledClientIsNoOp(t *testing.T) {
	assert.False(t, NewTelegram("", "").Enabled())
	assert.False(t, NewTelegram("token", "").Enabled())
	assert.False(t, NewTelegram("", "chat").Enabled())

	// No server configured at all: Send must not attempt any I/O.
	err := NewTelegram("", "").Send(context.Background(), "msg")
	assert.NoError(t, err)
}
