package service

import (
	"context"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

// ---------------------------------------------------------------------------
// mockProjectRepository は ProjectRepository のモック
// ---------------------------------------------------------------------------

type mockProjectRepository struct {
	listFunc    func(ctx context.Context, sort model.ProjectSort) ([]*model.Project, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Project, error)
	createFunc  func(ctx context.Context, p *model.Project) error
}

func (m *mockProjectRepository) List(ctx context.Context, sort model.ProjectSort) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, sort)
	}
	return nil, nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProjectRepository) Create(ctx context.Context, p *model.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockPledgeRepository は PledgeRepository のモック
// ---------------------------------------------------------------------------

type mockPledgeRepository struct {
	listFunc   func(ctx context.Context, projectID string) ([]*model.Pledge, error)
	createFunc func(ctx context.Context, p *model.Pledge) error
}

func (m *mockPledgeRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockPledgeRepository) Create(ctx context.Context, p *model.Pledge) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockUpdateRepository は UpdateRepository のモック
// ---------------------------------------------------------------------------

type mockUpdateRepository struct {
	listFunc   func(ctx context.Context, projectID string) ([]*model.Update, error)
	createFunc func(ctx context.Context, u *model.Update) error
}

func (m *mockUpdateRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockUpdateRepository) Create(ctx context.Context, u *model.Update) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return nil
}

func fixedProject(id string, goal, current float64) *model.Project {
	end, _ := model.ParseDate("2025-07-01")
	return &model.Project{ID: id, Title: "Solar", Description: "Panels", GoalAmount: goal, CurrentAmount: current, EndDate: end, UserID: "owner"}
}
