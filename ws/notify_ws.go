package ws

import (
	"net/http"
	"sync"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NotifyHub fans freshly created notifications out to connected users. A
// user may hold several connections (tabs, devices); each gets every event.
type NotifyHub struct {
	clients    map[uint]map[*websocket.Conn]bool // userID -> connections
	broadcast  chan pushMessage
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
	log        *zap.SugaredLogger
}

type subscription struct {
	Conn   *websocket.Conn
	UserID uint
}

type pushMessage struct {
	UserID       uint
	Notification *entity.Notification
}

func NewNotifyHub(log *zap.SugaredLogger) *NotifyHub {
	return &NotifyHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan pushMessage, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		log:        log,
	}
}

// Publish satisfies services.Publisher. Non-blocking: if the hub is backed
// up the event is dropped; the record is already in the store, the client
// catches up on next list.
func (h *NotifyHub) Publish(userID uint, n *entity.Notification) {
	select {
	case h.broadcast <- pushMessage{UserID: userID, Notification: n}:
	default:
		h.log.Warnw("notify hub backlog, dropping push", "user", userID)
	}
}

func (h *NotifyHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.UserID] == nil {
				h.clients[sub.UserID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.UserID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.UserID][sub.Conn]; ok {
				delete(h.clients[sub.UserID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.UserID] {
				if err := conn.WriteJSON(msg.Notification); err != nil {
					h.log.Errorw("ws write failed", "user", msg.UserID, "err", err)
					conn.Close()
					delete(h.clients[msg.UserID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // dev only
}

// Serve upgrades an authenticated request and parks it until the client
// hangs up. The read loop exists only to detect disconnects.
func (h *NotifyHub) Serve(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws upgrade failed", "err", err)
		return
	}

	sub := subscription{Conn: conn, UserID: uid}
	h.register <- sub

	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
