package handtrack

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/metrics"
	"github.com/gonewx/snowglobe/pkg/systems"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestServerStoresFrames(t *testing.T) {
	mb := NewMailbox()
	srv := NewServer(config.HandTrackingConfig{}, mb, metrics.NewManager())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/hands")
	defer conn.Close()

	fist := SyntheticFrame(components.GestureFist, 0.5)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, arrayMessage(fist)))

	require.Eventually(t, func() bool { return mb.Seq() == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, components.GestureFist, systems.ClassifyGesture(mb.Latest()).Kind)

	// 格式错误的消息被忽略，连接保持
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("garbage")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"multiHandLandmarks":[]}`)))

	require.Eventually(t, func() bool { return mb.Seq() == 2 }, waitFor, 5*time.Millisecond)
	assert.Nil(t, mb.Latest())
	assert.Equal(t, 1, srv.Sessions())
}

func TestServerClearsHandOnDisconnect(t *testing.T) {
	mb := NewMailbox()
	srv := NewServer(config.HandTrackingConfig{Path: "/feed"}, mb, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/feed")
	open := SyntheticFrame(components.GestureOpenHand, 0.5)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, arrayMessage(open)))
	require.Eventually(t, func() bool { return mb.Latest() != nil }, waitFor, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return srv.Sessions() == 0 }, waitFor, 5*time.Millisecond)
	assert.Nil(t, mb.Latest())
}

func TestServerStartShutdown(t *testing.T) {
	mb := NewMailbox()
	srv := NewServer(config.HandTrackingConfig{Addr: "127.0.0.1:0"}, mb, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, err := srv.Start(ctx)
	require.NoError(t, err)

	conn := dial(t, "ws://"+addr.String()+"/hands")
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.Sessions() == 1 }, waitFor, 5*time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), waitFor)
	defer shutdownCancel()
	require.NoError(t, srv.Shutdown(shutdownCtx))

	// 服务端关闭后客户端读取返回错误
	_ = conn.SetReadDeadline(time.Now().Add(waitFor))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	// 重复关闭是安全的
	assert.NoError(t, srv.Shutdown(shutdownCtx))
}
