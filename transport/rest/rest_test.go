package rest

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.Registry) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	registry := repository.NewRegistry(logger, repository.NewMemoryCodeStore(), repository.CodeOptions{Length: 6, MaxAttempts: 4})

	ts := httptest.NewServer(New(logger, registry, "https://play.example.com/").Handler())
	t.Cleanup(ts.Close)

	return ts, registry
}

func TestPingHandler(t *testing.T) {
	// Given: a running REST server
	ts, _ := newTestServer(t)

	// When: /ping is requested
	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: it answers pong to any origin
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestPingHandler_CORS(t *testing.T) {
	// Given: a running REST server
	ts, _ := newTestServer(t)

	// When: a browser page from another origin calls /ping
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/ping", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://elsewhere.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: the response allows it
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestQRHandler(t *testing.T) {
	t.Run("Live room", func(t *testing.T) {
		// Given: a waiting room
		ts, registry := newTestServer(t)
		room, err := registry.Create(context.Background(), "host", "Alice")
		require.NoError(t, err)

		// When: its QR code is requested
		resp, err := http.Get(ts.URL + "/rooms/" + room.Code + "/qr")
		require.NoError(t, err)
		defer resp.Body.Close()

		// Then: a PNG image is returned
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, qrSize, img.Bounds().Dx())
	})

	t.Run("Unknown room", func(t *testing.T) {
		// Given: an empty registry
		ts, _ := newTestServer(t)

		// When: a QR code for an unknown code is requested
		resp, err := http.Get(ts.URL + "/rooms/ZZZZZZ/qr")
		require.NoError(t, err)
		defer resp.Body.Close()

		// Then: it is not found
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Destroyed room", func(t *testing.T) {
		// Given: a room that has been destroyed
		ts, registry := newTestServer(t)
		room, err := registry.Create(context.Background(), "host", "Alice")
		require.NoError(t, err)
		require.NoError(t, registry.Destroy(context.Background(), room.Code))

		// When: its QR code is requested
		resp, err := http.Get(ts.URL + "/rooms/" + room.Code + "/qr")
		require.NoError(t, err)
		defer resp.Body.Close()

		// Then: it is not found
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestInviteHandler_inviteLink(t *testing.T) {
	// Given: a handler configured with a trailing slash
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := NewInviteHandler(logger, nil, "https://play.example.com/").(*inviteHandler)

	// When / Then: the link carries the room code as a query parameter
	assert.Equal(t, "https://play.example.com/?room=ABC234", handler.inviteLink("ABC234"))
}
