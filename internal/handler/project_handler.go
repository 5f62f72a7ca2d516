package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/service"
	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

// ユーザー向けの固定メッセージ
const (
	msgFetchProjectsFailed = "Failed to fetch projects"
	msgCreateFailed        = "Failed to create project"
	msgProjectNotFound     = "Project not found"
	msgDetailsFailed       = "Failed to load project details"
)

// ProjectHandler はプロジェクトの一覧・詳細・作成の HTTP ハンドラ
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler は ProjectHandler を生成する
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// projectID は {id} を検証する。uuid でなければ空文字
func projectID(r *http.Request) string {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// List は GET /api/projects を処理する
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.projectService.List(r.Context(), model.ParseProjectSort(q.Get("sort")), q.Get("q"))
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchProjectsFailed)
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	GoalAmount  json.RawMessage `json:"goal_amount"`
	EndDate     string          `json:"end_date"`
}

// parseAmount は JSON 数値または数値文字列を float64 に変換する。解釈できなければ NaN
func parseAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return math.NaN()
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

// Create は POST /api/projects を処理する（認証必須）
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	project, err := h.projectService.Create(r.Context(), service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  parseAmount(req.GoalAmount),
		EndDate:     req.EndDate,
		UserID:      userID,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
			return
		}
		slog.Error("create project failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Details は GET /api/projects/{id} を処理する
func (h *ProjectHandler) Details(w http.ResponseWriter, r *http.Request) {
	id := projectID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return
	}
	viewerID, _ := auth.UserIDFromContext(r.Context())

	details, err := h.projectService.Details(r.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		slog.Error("load project details failed", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgDetailsFailed)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Chart は GET /api/projects/{id}/chart を処理する
func (h *ProjectHandler) Chart(w http.ResponseWriter, r *http.Request) {
	id := projectID(r)
	if id == "" {
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return
	}
	points, err := h.projectService.Chart(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		slog.Error("load chart failed", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgDetailsFailed)
		return
	}
	if points == nil {
		points = []model.ChartPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chart": points})
}
