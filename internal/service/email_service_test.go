package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSendPasswordReset(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewEmailService("key-123", "FitTracker <no-reply@example.com>").WithEndpoint(srv.URL)
	require.NoError(t, svc.SendPasswordReset(context.Background(), "ana@example.com", "042917"))

	assert.Equal(t, "FitTracker <no-reply@example.com>", got["from"])
	assert.Equal(t, []interface{}{"ana@example.com"}, got["to"])
	assert.Contains(t, got["html"], "042917")
}

func TestSendPasswordReset_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	svc := NewEmailService("k", "f").WithEndpoint(srv.URL)
	err := svc.SendPasswordReset(context.Background(), "a@b.c", "000000")
	assert.ErrorContains(t, err, "422")
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.SendPasswordReset(context.Background(), "ana@example.com", "123456"))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ana@example.com", entries[0].ContextMap()["to"])
	assert.NotContains(t, entries[0].Message, "123456")
}
