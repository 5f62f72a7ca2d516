package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/service"
	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

const (
	msgPledgeThanks  = "Thank you for your pledge!"
	msgPledgeFailed  = "Failed to process pledge. Please try again."
	msgInvalidAmount = "Please enter a valid pledge amount"
)

// PledgeHandler handles POST /api/projects/{id}/pledges.
type PledgeHandler struct {
	pledgeService  service.PledgeService
	projectService service.ProjectService
}

// NewPledgeHandler は PledgeHandler を生成する
func NewPledgeHandler(pledgeService service.PledgeService, projectService service.ProjectService) *PledgeHandler {
	return &PledgeHandler{pledgeService: pledgeService, projectService: projectService}
}

type pledgeRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type pledgeResponse struct {
	*model.ProjectDetails
	Pledge  *model.Pledge `json:"pledge"`
	Message string        `json:"message"`
}

// Create は支援を登録し、最新の詳細情報を返す
func (h *PledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := projectID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// サインイン後に詳細画面へ戻れるよう return_to を返す
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":     "unauthorized",
			"return_to": "/project/" + id,
		})
		return
	}

	var req pledgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidAmount)
		return
	}

	pledge, err := h.pledgeService.Pledge(r.Context(), id, userID, parseAmount(req.Amount))
	if err != nil {
		var exceeds *funding.ExceedsRemainingError
		switch {
		case errors.As(err, &exceeds):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":            exceeds.Error(),
				"remaining_amount": exceeds.Remaining,
			})
		case errors.Is(err, funding.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, msgInvalidAmount)
		case errors.Is(err, funding.ErrAlreadyFunded):
			writeError(w, http.StatusConflict, funding.FundedMessage)
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, msgProjectNotFound)
		default:
			slog.Error("pledge failed", "project_id", id, "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgPledgeFailed)
		}
		return
	}

	details, err := h.projectService.Details(r.Context(), id, userID)
	if err != nil {
		// 支援自体は保存済み。再取得だけ失敗したので詳細は省く
		slog.Error("reload after pledge failed", "project_id", id, "error", err)
		writeJSON(w, http.StatusCreated, pledgeResponse{Pledge: pledge, Message: msgPledgeThanks})
		return
	}
	writeJSON(w, http.StatusCreated, pledgeResponse{ProjectDetails: details, Pledge: pledge, Message: msgPledgeThanks})
}
