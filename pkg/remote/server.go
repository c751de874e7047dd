// Package remote 通过 WebSocket 远程驱动配置器
//
// 客户端发送：
//
//	{"type":"hover","tier":"2K+"}
//	{"type":"select"}
//
// 服务端在每次状态变化后广播 State。
// 连接 goroutine 只把意图放入缓冲通道，由渲染循环消费，
// 不直接接触任何场景状态。
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gonewx/configurator/pkg/types"
	"github.com/gorilla/websocket"
)

// IntentKind 远程意图类型
type IntentKind string

const (
	// IntentHover 悬停档位
	IntentHover IntentKind = "hover"
	// IntentSelect 选择主部件
	IntentSelect IntentKind = "select"
)

// ErrUnknownIntent 无法识别的消息类型
var ErrUnknownIntent = errors.New("unknown intent")

// Intent 一条远程意图
type Intent struct {
	Kind IntentKind
	Tier types.Tier // 仅 IntentHover 有效
}

// message 线上格式
type message struct {
	Type string `json:"type"`
	Tier string `json:"tier,omitempty"`
}

// RotationState 旋转状态快照
type RotationState struct {
	Active    bool    `json:"active"`
	Angle     float64 `json:"angle"`
	Direction float64 `json:"direction"`
}

// State 广播给客户端的状态快照
type State struct {
	Tier       string          `json:"tier,omitempty"`
	Assemblies map[string]bool `json:"assemblies"`
	Rotation   *RotationState  `json:"rotation,omitempty"`
	Loading    int             `json:"loading"`
}

// ParseIntent 解析客户端消息
func ParseIntent(data []byte) (Intent, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Intent{}, fmt.Errorf("invalid message: %w", err)
	}

	switch IntentKind(msg.Type) {
	case IntentHover:
		tier, err := types.ParseTier(msg.Tier)
		if err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentHover, Tier: tier}, nil
	case IntentSelect:
		return Intent{Kind: IntentSelect}, nil
	default:
		return Intent{}, fmt.Errorf("%w: %q", ErrUnknownIntent, msg.Type)
	}
}

// DefaultWriteTimeout 单条消息的写超时，超时的客户端被断开
const DefaultWriteTimeout = 5 * time.Second

// client 单个连接
//
// send 只保留最新一条状态：状态是完整快照，慢客户端跳过中间状态即可。
// 所有写操作都在该连接自己的 writePump goroutine 中进行。
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server WebSocket 服务
type Server struct {
	upgrader websocket.Upgrader
	intents  chan Intent

	// WriteTimeout 写超时，需在 Start 之前设置
	WriteTimeout time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // 最近一次广播的状态，新连接建立时立即发送

	httpServer *http.Server
}

// NewServer 创建服务，buffer 为意图通道容量
func NewServer(buffer int) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		intents:      make(chan Intent, buffer),
		WriteTimeout: DefaultWriteTimeout,
		clients:      make(map[*client]struct{}),
	}
}

// Intents 返回意图通道，由渲染循环每帧非阻塞地读取
func (s *Server) Intents() <-chan Intent {
	return s.intents
}

// Handler 返回 HTTP 处理器（路径 /ws）
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	return mux
}

// Start 在 addr 上开始监听，返回实际监听地址
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[RemoteServer] Serve error: %v", err)
		}
	}()

	log.Printf("[RemoteServer] Listening on ws://%s/ws", ln.Addr())
	return ln.Addr().String(), nil
}

// Shutdown 关闭监听和所有连接
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		s.removeLocked(c)
		c.conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// ServeWS 处理单个 WebSocket 连接
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[RemoteServer] Upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 1)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.last != nil {
		c.send <- s.last
	}
	s.mu.Unlock()

	go s.writePump(c)

	defer func() {
		s.mu.Lock()
		s.removeLocked(c)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		intent, err := ParseIntent(data)
		if err != nil {
			log.Printf("[RemoteServer] Ignoring message: %v", err)
			continue
		}

		select {
		case s.intents <- intent:
		default:
			log.Printf("[RemoteServer] Intent queue full, dropping %s", intent.Kind)
		}
	}
}

// writePump 把 send 中的状态写到连接上
// 写失败或超时时关闭连接，读循环随之退出并注销客户端
func (s *Server) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[RemoteServer] Write error, dropping client: %v", err)
			c.conn.Close()
			return
		}
	}
}

// removeLocked 注销客户端并结束其 writePump，调用方需持有 s.mu
func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}

// Broadcast 向所有客户端发送状态快照
//
// 只向各客户端的 send 投递，从不阻塞调用方（渲染循环）。
// 尚未写出的旧状态被新状态替换。
func (s *Server) Broadcast(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = data
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// 只有 Broadcast 在持锁时投递，丢掉旧状态后一定能放入
			select {
			case <-c.send:
			default:
			}
			c.send <- data
		}
	}
	return nil
}
