package conversations

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	ReporterAge    *int   `json:"reporter_age,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type           string  `json:"type"` // "response" or "error"
	ConversationID string  `json:"conversation_id"`
	Phase          string  `json:"phase,omitempty"`
	Content        string  `json:"content"`
	Completion     float64 `json:"completion,omitempty"`
}

// RegisterChatRoute mounts the live chat WebSocket endpoint.
func RegisterChatRoute(r chi.Router, svc *Service) {
	r.Get("/ws/chat", handleWebSocket(svc))
}

func handleWebSocket(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("conversations: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("conversations: websocket read: %v", err)
				}
				return
			}

			var req chatRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendChatError(conn, "", "invalid message format")
				continue
			}
			if req.ConversationID == "" {
				sendChatError(conn, "", "conversation_id is required")
				continue
			}

			res, err := svc.HandleMessage(r.Context(), req.ConversationID, req.Content, req.ReporterAge)
			switch {
			case errors.Is(err, ErrEmptyMessage):
				sendChatError(conn, req.ConversationID, "empty message")
				continue
			case errors.Is(err, ErrConversationNotFound):
				sendChatError(conn, req.ConversationID, "conversation not found")
				continue
			case err != nil:
				log.Printf("conversations: websocket turn: %v", err)
				sendChatError(conn, req.ConversationID, "internal error")
				continue
			}

			conn.WriteJSON(chatResponse{
				Type:           "response",
				ConversationID: req.ConversationID,
				Phase:          string(res.Phase),
				Content:        res.Reply,
				Completion:     res.Completion,
			})
		}
	}
}

func sendChatError(conn *websocket.Conn, conversationID, msg string) {
	conn.WriteJSON(chatResponse{
		Type:           "error",
		ConversationID: conversationID,
		Content:        msg,
	})
}
