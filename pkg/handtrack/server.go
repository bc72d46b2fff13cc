package handtrack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultPath       = "/hands"
	defaultReadLimit  = 64 << 10
	readHeaderTimeout = 5 * time.Second
	closeGracePeriod  = time.Second
)

// Server 接收浏览器端 MediaPipe 推送的关键点
//
// 每条 websocket 文本消息是一帧。所有连接写入同一个 Mailbox。
type Server struct {
	addr      string
	path      string
	readLimit int64
	mailbox   *Mailbox
	metrics   *metrics.Manager
	upgrader  websocket.Upgrader

	mu       sync.Mutex
	srv      *http.Server
	sessions map[string]*websocket.Conn
}

// NewServer 创建追踪服务，metrics 可以为 nil
func NewServer(cfg config.HandTrackingConfig, mailbox *Mailbox, m *metrics.Manager) *Server {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	readLimit := cfg.ReadLimit
	if readLimit <= 0 {
		readLimit = defaultReadLimit
	}
	return &Server{
		addr:      cfg.Addr,
		path:      path,
		readLimit: readLimit,
		mailbox:   mailbox,
		metrics:   m,
		upgrader: websocket.Upgrader{
			// 追踪页面通常从本地文件或其他端口打开
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*websocket.Conn),
	}
}

// Handler 返回挂载了追踪端点的 HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleHands)
	return mux
}

// Start 绑定监听地址并在后台提供服务，ctx 取消时自动关闭
func (s *Server) Start(ctx context.Context) (net.Addr, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	go func() {
		log.Printf("[HandTrack] Listening on ws://%s%s", ln.Addr(), s.path)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[HandTrack] Server failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Printf("[HandTrack] Shutdown failed: %v", err)
		}
	}()

	return ln.Addr(), nil
}

// Shutdown 关闭所有会话并停止 HTTP 服务，可重复调用
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	conns := make([]*websocket.Conn, 0, len(s.sessions))
	for _, c := range s.sessions {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	// 被劫持的 websocket 连接不受 http.Server.Shutdown 管理
	deadline := time.Now().Add(closeGracePeriod)
	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), deadline)
		_ = c.Close()
	}

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Sessions 当前连接数
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleHands(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HandTrack] Upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(s.readLimit)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = conn
	s.mu.Unlock()
	s.metrics.AddHandClients(1)
	log.Printf("[HandTrack] Session %s connected from %s", id, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		remaining := len(s.sessions)
		s.mu.Unlock()
		s.metrics.AddHandClients(-1)
		_ = conn.Close()

		// 最后一个追踪端断开后，手视为消失
		if remaining == 0 {
			s.mailbox.Store(nil)
		}
		log.Printf("[HandTrack] Session %s closed", id)
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[HandTrack] Session %s read error: %v", id, err)
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := DecodeFrame(data)
		if err != nil {
			log.Printf("[HandTrack] Session %s: %v", id, err)
			s.metrics.RecordHandFrame("malformed")
			continue
		}
		if frame == nil {
			s.metrics.RecordHandFrame("empty")
		} else {
			s.metrics.RecordHandFrame("ok")
		}
		s.mailbox.Store(frame)
	}
}
