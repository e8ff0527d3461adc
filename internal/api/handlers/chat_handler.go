package handlers

import (
	"net/http"

	"github.com/dashspec/engine/internal/api/middleware"
	"github.com/dashspec/engine/internal/api/types"
	"github.com/dashspec/engine/internal/chat"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ChatHandler struct {
	engine   *chat.Engine
	sessions chat.SessionStore
}

func NewChatHandler(engine *chat.Engine, sessions chat.SessionStore) *ChatHandler {
	return &ChatHandler{engine: engine, sessions: sessions}
}

func chatResponse(s chat.Session, msg string) types.ChatResponse {
	return types.ChatResponse{Flow: string(s.Flow), Step: string(s.Step), Message: msg, Done: s.Done()}
}

// session returns the stored snapshot for the caller or rebuilds it from
// what is persisted. fresh reports a rebuild.
func (h *ChatHandler) session(w http.ResponseWriter, r *http.Request) (s chat.Session, prompt string, fresh, ok bool) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return s, "", false, false
	}
	flow, err := chat.ParseFlow(chi.URLParam(r, "flow"))
	if err != nil {
		writeError(w, err)
		return s, "", false, false
	}
	userID := middleware.GetUserID(r.Context())

	key := chat.SessionKey{ProjectID: projectID, UserID: userID, Flow: flow}
	s, found, err := h.sessions.Load(r.Context(), key)
	if err != nil {
		// a lost snapshot is recoverable
		logger.L().Warn("chat session load failed", zap.String("key", key.String()), zap.Error(err))
	}
	if found {
		return s, chat.Prompt(flow, s.Step), false, true
	}

	s, prompt, err = h.engine.Start(r.Context(), projectID, userID, flow)
	if err != nil {
		writeError(w, err)
		return s, "", false, false
	}
	return s, prompt, true, true
}

func (h *ChatHandler) store(r *http.Request, s chat.Session) {
	if err := h.sessions.Save(r.Context(), s); err != nil {
		logger.L().Warn("chat session save failed", zap.String("key", chat.KeyOf(s).String()), zap.Error(err))
	}
}

// Resume godoc
// @Summary Start or resume a requirements conversation
// @Tags Chat
// @Security BearerAuth
// @Param id path string true "project id"
// @Param flow path string true "functional or design"
// @Success 200 {object} types.APIResponse{data=types.ChatResponse}
// @Router /projects/{id}/chat/{flow} [get]
func (h *ChatHandler) Resume(w http.ResponseWriter, r *http.Request) {
	s, prompt, fresh, ok := h.session(w, r)
	if !ok {
		return
	}
	if fresh {
		h.store(r, s)
	}
	writeData(w, http.StatusOK, chatResponse(s, prompt))
}

// Submit godoc
// @Summary Answer the current question or send a command
// @Tags Chat
// @Security BearerAuth
// @Param id path string true "project id"
// @Param flow path string true "functional or design"
// @Param body body types.ChatInputRequest true "one line of input"
// @Success 200 {object} types.APIResponse{data=types.ChatResponse}
// @Router /projects/{id}/chat/{flow} [post]
func (h *ChatHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req types.ChatInputRequest
	if !decode(w, r, &req) {
		return
	}
	s, _, _, ok := h.session(w, r)
	if !ok {
		return
	}
	next, reply, err := h.engine.Submit(r.Context(), s, req.Input)
	if err != nil {
		writeError(w, err)
		return
	}
	h.store(r, next)
	writeData(w, http.StatusOK, chatResponse(next, reply))
}

// Reset godoc
// @Summary Forget the stored conversation; the next request resumes at the first gap
// @Tags Chat
// @Security BearerAuth
// @Param id path string true "project id"
// @Param flow path string true "functional or design"
// @Success 204
// @Router /projects/{id}/chat/{flow} [delete]
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	flow, err := chat.ParseFlow(chi.URLParam(r, "flow"))
	if err != nil {
		writeError(w, err)
		return
	}
	key := chat.SessionKey{ProjectID: projectID, UserID: middleware.GetUserID(r.Context()), Flow: flow}
	if err := h.sessions.Delete(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
