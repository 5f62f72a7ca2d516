package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/service"
	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

const (
	msgUpdatePosted     = "Update posted successfully"
	msgUpdateFailed     = "Failed to post update. Please try again."
	msgUpdatesLoadError = "Failed to load updates"
)

// UpdateHandler はプロジェクト近況報告の HTTP ハンドラ
type UpdateHandler struct {
	updateService service.UpdateService
}

// NewUpdateHandler は UpdateHandler を生成する
func NewUpdateHandler(updateService service.UpdateService) *UpdateHandler {
	return &UpdateHandler{updateService: updateService}
}

// List は GET /api/projects/{id}/updates を処理する
func (h *UpdateHandler) List(w http.ResponseWriter, r *http.Request) {
	id := projectID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return
	}
	updates, err := h.updateService.ListByProjectID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		slog.Error("list updates failed", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgUpdatesLoadError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": nonNilUpdates(updates)})
}

type createUpdateRequest struct {
	Content string `json:"content"`
}

// Create は POST /api/projects/{id}/updates を処理する（オーナーのみ）
func (h *UpdateHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := projectID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	update, err := h.updateService.Create(r.Context(), id, userID, req.Content)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "forbidden")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, msgProjectNotFound)
		default:
			slog.Error("post update failed", "project_id", id, "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgUpdateFailed)
		}
		return
	}

	// 投稿後は近況報告の一覧だけを再取得する
	updates, err := h.updateService.ListByProjectID(r.Context(), id)
	if err != nil {
		slog.Error("reload updates failed", "project_id", id, "error", err)
		updates = []*model.Update{update}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"update":  update,
		"updates": nonNilUpdates(updates),
		"message": msgUpdatePosted,
	})
}

func nonNilUpdates(u []*model.Update) []*model.Update {
	if u == nil {
		return []*model.Update{}
	}
	return u
}
