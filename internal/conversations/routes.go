package conversations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/empath-labs/intake-server/internal/engine"
)

// RegisterRoutes mounts the conversation API routes.
func RegisterRoutes(r chi.Router, store *Store, svc *Service) {
	r.Route("/api/conversations", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleCreate(store))
		r.Get("/{id}/messages", handleMessages(store))
		r.Post("/{id}/messages", handleSend(svc))
		r.Get("/{id}/record", handleRecord(store))
		r.Delete("/{id}", handleDelete(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = "anonymous"
		}

		convs, err := store.ListConversations(r.Context(), userID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if convs == nil {
			convs = []Conversation{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"conversations": convs})
	}
}

type createRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if r.Body != nil {
			// An empty body is fine; defaults apply.
			json.NewDecoder(r.Body).Decode(&req)
		}

		conv, err := store.CreateConversation(r.Context(), req.UserID, req.Title)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(conv)
	}
}

func handleMessages(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		conv, err := store.GetConversation(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if conv == nil {
			http.Error(w, `{"error":"conversation not found","code":"not_found"}`, http.StatusNotFound)
			return
		}

		messages, err := store.ListMessages(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"messages": messages})
	}
}

type sendRequest struct {
	Content     string `json:"content"`
	ReporterAge *int   `json:"reporter_age,omitempty"`
}

// turnResponse is the JSON form of a processed turn.
type turnResponse struct {
	Phase      string  `json:"phase"`
	Reply      string  `json:"reply"`
	Completion float64 `json:"completion"`
	Done       bool    `json:"done"`
}

func handleSend(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		res, err := svc.HandleMessage(r.Context(), id, req.Content, req.ReporterAge)
		switch {
		case errors.Is(err, ErrEmptyMessage):
			http.Error(w, `{"error":"empty message","code":"validation"}`, http.StatusBadRequest)
			return
		case errors.Is(err, ErrConversationNotFound):
			http.Error(w, `{"error":"conversation not found","code":"not_found"}`, http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		if r.URL.Query().Get("stream") == "false" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(turnResponse{
				Phase:      string(res.Phase),
				Reply:      res.Reply,
				Completion: res.Completion,
				Done:       true,
			})
			return
		}

		streamTurn(w, res)
	}
}

// streamTurn delivers the reply as a single server-sent event. The whole
// reply is computed before the first byte goes out; chunking is purely a
// transport concern and this transport sends one chunk.
func streamTurn(w http.ResponseWriter, res engine.Result) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	payload, err := json.Marshal(turnResponse{
		Phase:      string(res.Phase),
		Reply:      res.Reply,
		Completion: res.Completion,
		Done:       true,
	})
	if err != nil {
		http.Error(w, `{"error":"encoding reply"}`, http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "data: %s\n\n", payload)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func handleRecord(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		conv, err := store.GetConversation(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if conv == nil {
			http.Error(w, `{"error":"conversation not found","code":"not_found"}`, http.StatusNotFound)
			return
		}

		rec, err := store.LoadRecord(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if rec == nil {
			w.Write([]byte(`{}`))
			return
		}
		json.NewEncoder(w).Encode(rec)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := store.DeleteConversation(r.Context(), id)
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, `{"error":"conversation not found","code":"not_found"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}
