package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

var SocketServer *socketio.Server

// Presence tracking
var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu sync.RWMutex
)

// Typing throttle: minimum interval between typing events per user
var (
	lastTypingEmit         = make(map[string]time.Time)
	lastTypingMu           sync.RWMutex
	typingThrottleDuration = 3 * time.Second
)

// GetOnlineUsers returns list of online user IDs
func GetOnlineUsers() []string {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()

	users := make([]string, 0, len(onlineUsers))
	for userId := range onlineUsers {
		users = append(users, userId)
	}
	return users
}

// IsUserOnline checks if a user has an open socket session
func IsUserOnline(userId string) bool {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	_, exists := onlineUsers[userId]
	return exists
}

// PushToUser emits an event into a user's personal room. Returns an error
// when the socket server is not up so callers can fall back to the queue.
func PushToUser(userId string, event string, data map[string]interface{}) error {
	if SocketServer == nil {
		return fmt.Errorf("socket server not initialized")
	}
	SocketServer.BroadcastToRoom("/", userId, event, data)
	return nil
}

// SendNotificationToUser sends a real-time notification to a specific user
func SendNotificationToUser(userId string, notification map[string]interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", userId, "new_notification", notification)
	}
}

// BroadcastSystemAnnouncement pushes an announcement to every connected client
func BroadcastSystemAnnouncement(data map[string]interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", "presence", "system_announcement", data)
	}
}

// BroadcastPresenceUpdate broadcasts user online/offline status to all clients
func BroadcastPresenceUpdate(userId string, isOnline bool) {
	if SocketServer != nil {
		data := map[string]interface{}{
			"userId":   userId,
			"isOnline": isOnline,
		}
		SocketServer.BroadcastToRoom("/", "presence", "presence_update", data)
	}
}

// PushUnreadCount recounts and pushes the unread notification total
func PushUnreadCount(userId string) {
	if SocketServer == nil || database.DB == nil {
		return
	}
	var count int64
	database.DB.Table("notifications").Where("user_id = ? AND is_read = ?", userId, false).Count(&count)
	SocketServer.BroadcastToRoom("/", userId, "unread_count_updated", map[string]interface{}{
		"count": count,
	})
}

// ApplyMessageAck records a delivery/read acknowledgment for a message.
// Only the recipient of the message may acknowledge it. Returns the
// sender to notify and whether the ack was accepted.
func ApplyMessageAck(userID, messageID, status string) (string, bool) {
	if userID == "" || messageID == "" {
		return "", false
	}
	if status != "delivered" && status != "read" {
		return "", false
	}

	var msg struct {
		SenderID    string
		RecipientID string
	}
	if err := database.DB.Table("messages").Select("sender_id", "recipient_id").Where("id = ?", messageID).Scan(&msg).Error; err != nil || msg.SenderID == "" {
		return "", false
	}
	if msg.RecipientID != userID {
		return "", false
	}

	if status == "read" {
		now := time.Now()
		database.DB.Table("messages").Where("id = ?", messageID).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	}
	return msg.SenderID, true
}

func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		url := s.URL()

		// Token comes via query param, the only reliable spot in a ws handshake
		token := url.Query().Get("token")
		if token == "" {
			token = url.Query().Get("auth_token") // Fallback
		}

		if token == "" {
			log.Println("Socket connection rejected: no token provided", s.ID())
			return fmt.Errorf("authentication required")
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			log.Println("Socket connection rejected: invalid token", s.ID())
			return fmt.Errorf("invalid token")
		}

		userId := claims.UserID
		log.Println("Socket authenticated:", s.ID(), "User:", userId)

		// Store userId in socket context for O(1) lookup
		s.SetContext(userId)

		onlineUsersMu.Lock()
		onlineUsers[userId] = s.ID()
		onlineUsersMu.Unlock()

		// Personal room for notifications and DMs
		s.Join(userId)

		// Global presence room, also used for system announcements
		s.Join("presence")

		BroadcastPresenceUpdate(userId, true)
		s.Emit("online_users", GetOnlineUsers())

		return nil
	})

	server.OnEvent("/", "join_chat", func(s socketio.Conn, chatId string) {
		log.Println("User joined chat:", chatId)
		s.Join(chatId)
	})

	server.OnEvent("/", "typing", func(s socketio.Conn, data map[string]interface{}) {
		recipientID, ok := data["recipientId"].(string)
		if !ok {
			recipientID, _ = data["receiverId"].(string)
		}

		if recipientID != "" {
			senderID, _ := s.Context().(string)
			if senderID == "" {
				return
			}

			lastTypingMu.RLock()
			lastTime, exists := lastTypingEmit[senderID]
			lastTypingMu.RUnlock()

			if exists && time.Since(lastTime) < typingThrottleDuration {
				return
			}

			lastTypingMu.Lock()
			lastTypingEmit[senderID] = time.Now()
			lastTypingMu.Unlock()

			server.BroadcastToRoom("/", recipientID, "user_typing", map[string]interface{}{
				"userId":    senderID,
				"expiresAt": time.Now().Add(4 * time.Second).Unix(), // Auto-expire on client
			})
		}
	})

	server.OnEvent("/", "get_online_users", func(s socketio.Conn, msg string) {
		s.Emit("online_users", GetOnlineUsers())
	})

	// Client sends after receiving/reading a message
	server.OnEvent("/", "message_ack", func(s socketio.Conn, data map[string]interface{}) {
		messageID, _ := data["messageId"].(string)
		status, _ := data["status"].(string) // "delivered" or "read"

		userID, _ := s.Context().(string)

		// Apply in background to respond faster to the socket
		go func() {
			if senderID, ok := ApplyMessageAck(userID, messageID, status); ok {
				server.BroadcastToRoom("/", senderID, "message_status", map[string]interface{}{
					"messageId": messageID,
					"status":    status,
				})
			}
		}()
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("closed", reason)

		onlineUsersMu.Lock()
		var disconnectedUserId string
		for userId, socketId := range onlineUsers {
			if socketId == s.ID() {
				disconnectedUserId = userId
				delete(onlineUsers, userId)
				break
			}
		}
		onlineUsersMu.Unlock()

		if disconnectedUserId != "" {
			BroadcastPresenceUpdate(disconnectedUserId, false)
		}
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("meet error:", e)
	})

	go server.Serve()
	SocketServer = server
	return server
}

// SocketHandler wraps the Socket.io server for gin
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
