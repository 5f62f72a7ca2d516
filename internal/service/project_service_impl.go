package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

// ProjectServiceImpl は ProjectService の実装
type ProjectServiceImpl struct {
	projects repository.ProjectRepository
	pledges  repository.PledgeRepository
	updates  repository.UpdateRepository
	now      func() time.Time
}

// NewProjectService は ProjectServiceImpl を生成する（DI: 各 Repository を注入）
func NewProjectService(projects repository.ProjectRepository, pledges repository.PledgeRepository, updates repository.UpdateRepository) *ProjectServiceImpl {
	return &ProjectServiceImpl{projects: projects, pledges: pledges, updates: updates, now: time.Now}
}

// WithClock replaces the clock used for days-left and end-date checks.
func (s *ProjectServiceImpl) WithClock(now func() time.Time) *ProjectServiceImpl {
	s.now = now
	return s
}

// List はプロジェクト一覧を取得し、検索語で絞り込む
func (s *ProjectServiceImpl) List(ctx context.Context, sort model.ProjectSort, search string) ([]*model.Project, error) {
	projects, err := s.projects.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return funding.Filter(projects, search), nil
}

// GetByID は ID でプロジェクトを取得する
func (s *ProjectServiceImpl) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// Create は入力を検証してプロジェクトを作成する
func (s *ProjectServiceImpl) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	p, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *ProjectServiceImpl) validate(in CreateProjectInput) (*model.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalid("description", "description is required")
	}
	if math.IsNaN(in.GoalAmount) || math.IsInf(in.GoalAmount, 0) || funding.Cents(in.GoalAmount) <= 0 {
		return nil, invalid("goal_amount", "goal_amount must be a positive number")
	}
	if in.GoalAmount > funding.MaxAmount {
		return nil, invalid("goal_amount", "goal_amount must not exceed "+funding.FormatUSD(funding.MaxAmount))
	}
	if strings.TrimSpace(in.EndDate) == "" {
		return nil, invalid("end_date", "end_date is required")
	}
	end, err := model.ParseDate(in.EndDate)
	if err != nil {
		return nil, invalid("end_date", "end_date must be a date (YYYY-MM-DD)")
	}
	if end.Before(model.NewDate(s.now()).Time) {
		return nil, invalid("end_date", "end_date must not be in the past")
	}
	if in.UserID == "" {
		return nil, invalid("user_id", "user_id is required")
	}
	return &model.Project{
		Title:       title,
		Description: description,
		GoalAmount:  in.GoalAmount,
		EndDate:     end,
		UserID:      in.UserID,
	}, nil
}

// Details はプロジェクト・近況報告・支援を順に読み込み、派生値を計算する
func (s *ProjectServiceImpl) Details(ctx context.Context, id, viewerID string) (*model.ProjectDetails, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByProjectID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	pledges, err := s.pledges.ListByProjectID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list pledges: %w", err)
	}
	if updates == nil {
		updates = []*model.Update{}
	}
	if pledges == nil {
		pledges = []*model.Pledge{}
	}
	return &model.ProjectDetails{
		Project:       p,
		Updates:       updates,
		Pledges:       pledges,
		Metrics:       funding.Compute(p, s.now()),
		Chart:         funding.Chart(pledges),
		CanPostUpdate: viewerID != "" && viewerID == p.UserID,
	}, nil
}

// Chart は累積支援額の推移を返す
func (s *ProjectServiceImpl) Chart(ctx context.Context, id string) ([]model.ChartPoint, error) {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return nil, err
	}
	pledges, err := s.pledges.ListByProjectID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list pledges: %w", err)
	}
	return funding.Chart(pledges), nil
}
