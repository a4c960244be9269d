package server

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"folio/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return ln.Addr().String()
}

func readEvent(t *testing.T, conn *websocket.Conn) notifications.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev notifications.Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestWebsocketFeed(t *testing.T) {
	env := newTestEnv(t)
	author := env.signup(t, "author")
	reader := env.signup(t, "reader")
	post := env.createPost(t, author, "Live")
	addr := listen(t, env.app)

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/ws", nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/ws?token="+reader, nil)
	require.NoError(t, err)
	defer conn.Close()

	hello := readEvent(t, conn)
	assert.Equal(t, "connected", hello.Type)
	assert.Equal(t, 1, env.srv.hub.Count())

	likeResp := env.do(t, http.MethodPost, "/api/posts/"+itoa(post.ID)+"/like", nil, author)
	require.Equal(t, http.StatusOK, likeResp.StatusCode)

	ev := readEvent(t, conn)
	assert.Equal(t, notifications.EventLikeToggled, ev.Type)
	assert.EqualValues(t, post.ID, ev.Payload["post_id"])
	assert.Equal(t, true, ev.Payload["liked"])
}
