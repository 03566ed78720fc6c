package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/earning-bot/internal/model"
)

type apiCall struct {
	method string
	form   map[string]string
}

type fakeBotAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeBotAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())

		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]

		form := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}

		f.mu.Lock()
		f.calls = append(f.calls, apiCall{method: method, form: form})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Earn","username":"earnbot"}}`))
		case "sendMessage":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		case "answerCallbackQuery", "setWebhook":
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		}
	}
}

func (f *fakeBotAPI) last() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeBotAPI) {
	t.Helper()

	fake := &fakeBotAPI{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	c, err := NewClientWithEndpoint("123:token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	return c, fake
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := NewClient("")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Username(t *testing.T) {
	c, _ := newTestClient(t)
	assert.Equal(t, "earnbot", c.Username())
}

func TestClient_SendWithKeyboard(t *testing.T) {
	c, fake := newTestClient(t)

	err := c.Send(context.Background(), model.Reply{ChatID: 42, Text: "<b>hi</b>", Keyboard: true})
	require.NoError(t, err)

	call := fake.last()
	assert.Equal(t, "sendMessage", call.method)
	assert.Equal(t, "42", call.form["chat_id"])
	assert.Equal(t, "<b>hi</b>", call.form["text"])
	assert.Equal(t, tgbotapi.ModeHTML, call.form["parse_mode"])

	var markup tgbotapi.InlineKeyboardMarkup
	require.NoError(t, json.Unmarshal([]byte(call.form["reply_markup"]), &markup))
	assert.Len(t, markup.InlineKeyboard, 3)
}

func TestClient_SendWithoutKeyboard(t *testing.T) {
	c, fake := newTestClient(t)

	require.NoError(t, c.Send(context.Background(), model.Reply{ChatID: 42, Text: "plain"}))

	_, ok := fake.last().form["reply_markup"]
	assert.False(t, ok)
}

func TestClient_SendCanceledContext(t *testing.T) {
	c, fake := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Send(ctx, model.Reply{ChatID: 42, Text: "late"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "getMe", fake.last().method)
}

func TestClient_AnswerCallback(t *testing.T) {
	c, fake := newTestClient(t)

	require.NoError(t, c.AnswerCallback(context.Background(), "cb-1"))

	call := fake.last()
	assert.Equal(t, "answerCallbackQuery", call.method)
	assert.Equal(t, "cb-1", call.form["callback_query_id"])
}

func TestClient_SetWebhook(t *testing.T) {
	c, fake := newTestClient(t)

	require.NoError(t, c.SetWebhook(context.Background(), "https://bot.example.com/webhook"))

	call := fake.last()
	assert.Equal(t, "setWebhook", call.method)
	assert.Equal(t, "https://bot.example.com/webhook", call.form["url"])
}
