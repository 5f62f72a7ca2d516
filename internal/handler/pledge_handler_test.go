package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

func pledgeRequestFor(userID, body string) *http.Request {
	return newRequest("POST", "/api/projects/"+testProjectID+"/pledges", testProjectID, userID, body)
}

func TestPledgeHandler_Create(t *testing.T) {
	var gotAmount float64
	pledges := &mockPledgeService{
		pledgeFunc: func(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error) {
			gotAmount = amount
			return &model.Pledge{ID: "pl-1", ProjectID: projectID, UserID: userID, Amount: amount}, nil
		},
	}
	projects := &mockProjectService{
		detailsFunc: func(ctx context.Context, id, viewerID string) (*model.ProjectDetails, error) {
			return &model.ProjectDetails{
				Project: &model.Project{ID: id, GoalAmount: 100, CurrentAmount: 40, BackerCount: 1},
				Pledges: []*model.Pledge{{Amount: 40}},
				Metrics: model.Metrics{RemainingAmount: 60},
			}, nil
		},
	}
	h := NewPledgeHandler(pledges, projects)

	rec := httptest.NewRecorder()
	h.Create(rec, pledgeRequestFor("backer", `{"amount":40}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 40.0, gotAmount)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Thank you for your pledge!", got["message"])
	require.Contains(t, got, "project")
	require.Contains(t, got, "metrics")
	assert.Equal(t, 40.0, got["project"].(map[string]any)["current_amount"])
}

func TestPledgeHandler_Create_ReloadFailureOmitsDetails(t *testing.T) {
	h := NewPledgeHandler(&mockPledgeService{}, &mockProjectService{
		detailsFunc: func(ctx context.Context, id, viewerID string) (*model.ProjectDetails, error) {
			return nil, errors.New("read timeout")
		},
	})

	rec := httptest.NewRecorder()
	h.Create(rec, pledgeRequestFor("backer", `{"amount":15}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 2)
	assert.Equal(t, "Thank you for your pledge!", got["message"])
	assert.Equal(t, 15.0, got["pledge"].(map[string]any)["amount"])
}

func TestPledgeHandler_Create_UnauthorizedCarriesReturnPath(t *testing.T) {
	called := false
	h := NewPledgeHandler(&mockPledgeService{
		pledgeFunc: func(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error) {
			called = true
			return nil, nil
		},
	}, &mockProjectService{})

	rec := httptest.NewRecorder()
	h.Create(rec, pledgeRequestFor("", `{"amount":10}`))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","return_to":"/project/`+testProjectID+`"}`, rec.Body.String())
	assert.False(t, called)
}

func TestPledgeHandler_Create_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "invalid amount",
			err:      funding.ErrInvalidAmount,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Please enter a valid pledge amount"}`,
		},
		{
			name:     "exceeds remaining",
			err:      &funding.ExceedsRemainingError{Remaining: 25.5},
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"error":"The maximum pledge amount available is $25.50","remaining_amount":25.5}`,
		},
		{
			name:     "already funded",
			err:      funding.ErrAlreadyFunded,
			wantCode: http.StatusConflict,
			wantBody: `{"error":"This project has been successfully funded!"}`,
		},
		{
			name:     "project missing",
			err:      fmt.Errorf("get project: %w", repository.ErrNotFound),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Project not found"}`,
		},
		{
			name:     "store failure",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Failed to process pledge. Please try again."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPledgeHandler(&mockPledgeService{
				pledgeFunc: func(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error) {
					return nil, tt.err
				},
			}, &mockProjectService{})

			rec := httptest.NewRecorder()
			h.Create(rec, pledgeRequestFor("backer", `{"amount":30}`))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestPledgeHandler_Create_NonNumericAmountReachesGuardAsNaN(t *testing.T) {
	var gotAmount float64
	h := NewPledgeHandler(&mockPledgeService{
		pledgeFunc: func(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error) {
			gotAmount = amount
			return nil, funding.ErrInvalidAmount
		},
	}, &mockProjectService{})

	rec := httptest.NewRecorder()
	h.Create(rec, pledgeRequestFor("backer", `{"amount":"lots"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, math.IsNaN(gotAmount))
}

func TestPledgeHandler_Create_MalformedBody(t *testing.T) {
	h := NewPledgeHandler(&mockPledgeService{}, &mockProjectService{})

	rec := httptest.NewRecorder()
	h.Create(rec, pledgeRequestFor("backer", `{"amount":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
