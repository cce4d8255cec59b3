package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_OK(t *testing.T) {
	var gotReq sendRequest
	var gotAuth, gotIdem string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "msg_123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "re_testkey", "habit@serotonyl.ru")
	id, err := c.Send(context.Background(), "user@example.com", "Напоминание", "<b>Огонёк гаснет!</b>")

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "Bearer re_testkey", gotAuth)
	assert.NotEmpty(t, gotIdem)
	assert.Equal(t, "habit@serotonyl.ru", gotReq.From)
	assert.Equal(t, []string{"user@example.com"}, gotReq.To)
	assert.Equal(t, "Напоминание", gotReq.Subject)
}

func TestSend_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"validation_error"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "re_testkey", "habit@serotonyl.ru")
	_, err := c.Send(context.Background(), "user@example.com", "x", "y")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSend_ProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер уже закрыт — соединение не установится

	c := NewClient(srv.URL, "re_testkey", "habit@serotonyl.ru")
	_, err := c.Send(context.Background(), "user@example.com", "x", "y")
	assert.Error(t, err)
}
