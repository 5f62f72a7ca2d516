package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/service"
	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

const testProjectID = "3f2a8b5e-6c1d-4e7f-9a0b-1c2d3e4f5a6b"

type mockProjectService struct {
	listFunc    func(ctx context.Context, sort model.ProjectSort, search string) ([]*model.Project, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Project, error)
	createFunc  func(ctx context.Context, in service.CreateProjectInput) (*model.Project, error)
	detailsFunc func(ctx context.Context, id, viewerID string) (*model.ProjectDetails, error)
	chartFunc   func(ctx context.Context, id string) ([]model.ChartPoint, error)
}

func (m *mockProjectService) List(ctx context.Context, sort model.ProjectSort, search string) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, sort, search)
	}
	return nil, nil
}

func (m *mockProjectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProjectService) Create(ctx context.Context, in service.CreateProjectInput) (*model.Project, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil, nil
}

func (m *mockProjectService) Details(ctx context.Context, id, viewerID string) (*model.ProjectDetails, error) {
	if m.detailsFunc != nil {
		return m.detailsFunc(ctx, id, viewerID)
	}
	return &model.ProjectDetails{}, nil
}

func (m *mockProjectService) Chart(ctx context.Context, id string) ([]model.ChartPoint, error) {
	if m.chartFunc != nil {
		return m.chartFunc(ctx, id)
	}
	return nil, nil
}

type mockPledgeService struct {
	pledgeFunc func(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error)
}

func (m *mockPledgeService) Pledge(ctx context.Context, projectID, userID string, amount float64) (*model.Pledge, error) {
	if m.pledgeFunc != nil {
		return m.pledgeFunc(ctx, projectID, userID, amount)
	}
	return &model.Pledge{ProjectID: projectID, UserID: userID, Amount: amount}, nil
}

func (m *mockPledgeService) ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error) {
	return nil, nil
}

type mockUpdateService struct {
	listFunc   func(ctx context.Context, projectID string) ([]*model.Update, error)
	createFunc func(ctx context.Context, projectID, userID, content string) (*model.Update, error)
}

func (m *mockUpdateService) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockUpdateService) Create(ctx context.Context, projectID, userID, content string) (*model.Update, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, projectID, userID, content)
	}
	return &model.Update{ProjectID: projectID, UserID: userID, Content: content}, nil
}

type mockAuthService struct {
	signInFunc  func(ctx context.Context, email, password string) (*model.Session, error)
	signUpFunc  func(ctx context.Context, email, password string) (*model.Session, error)
	signOutFunc func(ctx context.Context) error
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) SignOut(ctx context.Context) error {
	if m.signOutFunc != nil {
		return m.signOutFunc(ctx)
	}
	return nil
}

// newRequest は {id} を埋めたリクエストを作る。userID が空なら匿名
func newRequest(method, target, id, userID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if id != "" {
		req.SetPathValue("id", id)
	}
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}
