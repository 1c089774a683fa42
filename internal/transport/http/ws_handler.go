package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"brainy-quiz-service/internal/app"
	"brainy-quiz-service/internal/domain"
)

// GameWSHandler exposes stage play over a websocket: one connection is
// one live session. Correct answers never travel to the client.
type GameWSHandler struct {
	game     *app.GameService
	upgrader websocket.Upgrader
}

func NewGameWSHandler(game *app.GameService) *GameWSHandler {
	return &GameWSHandler{
		game: game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID  string `json:"questionId"`
	Answer      string `json:"answer"`
	TimeSpentMS int64  `json:"timeSpentMs"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionView is the wire shape of a question with the answer stripped.
type questionView struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options,omitempty"`
	Type         string   `json:"type"`
	AudioURL     string   `json:"audioUrl,omitempty"`
	OrderInStage int      `json:"orderInStage,omitempty"`
}

type startedPayload struct {
	SessionID      string       `json:"sessionId"`
	Stage          domain.Stage `json:"stage"`
	TotalQuestions int          `json:"totalQuestions"`
}

type answerResultPayload struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}

func toQuestionView(q domain.Question) questionView {
	return questionView{
		ID:           q.ID,
		Prompt:       q.Prompt,
		Options:      q.Options,
		Type:         string(q.Type),
		AudioURL:     q.AudioURL,
		OrderInStage: q.OrderInStage,
	}
}

// ServeWS upgrades the request, starts a stage attempt, and serves the
// play protocol until the attempt completes or the client disconnects.
// Disconnecting without completing abandons the attempt.
func (h *GameWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	stageID := r.URL.Query().Get("stageId")
	if userID == "" || stageID == "" {
		http.Error(w, "missing userId or stageId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.game.StartStage(r.Context(), userID, stageID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	completed := false
	defer func() {
		if !completed {
			h.game.QuitGame(session.ID)
		}
	}()

	_ = conn.WriteJSON(outboundMessage[startedPayload]{Type: "started", Payload: startedPayload{
		SessionID:      session.ID,
		Stage:          session.Stage,
		TotalQuestions: len(session.Questions),
	}})
	_ = conn.WriteJSON(outboundMessage[questionView]{Type: "question", Payload: toQuestionView(session.Questions[0])})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid answer payload")
				continue
			}
			record, err := h.game.SubmitAnswer(r.Context(), session.ID, payload.QuestionID, payload.Answer, time.Duration(payload.TimeSpentMS)*time.Millisecond)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[answerResultPayload]{Type: "answerResult", Payload: answerResultPayload{
				QuestionID: record.QuestionID,
				Correct:    record.IsCorrect,
			}})

		case "next":
			question, err := h.game.GetNextQuestion(session.ID)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			if question == nil {
				_ = conn.WriteJSON(outboundMessage[struct{}]{Type: "finished"})
				continue
			}
			_ = conn.WriteJSON(outboundMessage[questionView]{Type: "question", Payload: toQuestionView(*question)})

		case "pause":
			if err := h.game.PauseGame(r.Context(), session.ID); err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[struct{}]{Type: "paused"})

		case "resume":
			if err := h.game.ResumeGame(r.Context(), session.ID); err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[struct{}]{Type: "resumed"})

		case "progress":
			progress, err := h.game.GetSessionProgress(session.ID)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[domain.GameProgress]{Type: "progress", Payload: progress})

		case "complete":
			result, err := h.game.CompleteStage(r.Context(), session.ID)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					h.writeError(conn, err.Error())
					return
				}
				h.writeError(conn, err.Error())
				continue
			}
			completed = true
			_ = conn.WriteJSON(outboundMessage[*domain.StageResult]{Type: "stageResult", Payload: result})
			return

		case "quit":
			h.game.QuitGame(session.ID)
			completed = true
			_ = conn.WriteJSON(outboundMessage[struct{}]{Type: "quit"})
			return

		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *GameWSHandler) writeError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
