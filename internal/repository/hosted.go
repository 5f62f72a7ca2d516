package repository

import (
	"context"
	"errors"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/dataservice"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// Table names of the hosted data service.
const (
	tableProjects = "projects"
	tablePledges  = "pledges"
	tableUpdates  = "updates"
)

// mapAPIError translates hosted data service errors into the package sentinels.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	if dataservice.IsNotFound(err) {
		return ErrNotFound
	}
	var apiErr *dataservice.APIError
	if errors.As(err, &apiErr) {
		if mapped := classify(apiErr.Code, "", apiErr.Message+" "+apiErr.Details); mapped != nil {
			return mapped
		}
	}
	return err
}

// HostedProjectRepository は ProjectRepository のホスト型データサービス実装
type HostedProjectRepository struct {
	c *dataservice.Client
}

// NewHostedProjectRepository は HostedProjectRepository を生成する
func NewHostedProjectRepository(c *dataservice.Client) *HostedProjectRepository {
	return &HostedProjectRepository{c: c}
}

func (r *HostedProjectRepository) List(ctx context.Context, sort model.ProjectSort) ([]*model.Project, error) {
	column, ascending := sort.OrderColumn()
	var projects []*model.Project
	err := r.c.From(tableProjects).Select("*").Order(column, ascending).Execute(ctx, &projects)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return projects, nil
}

func (r *HostedProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := r.c.From(tableProjects).Select("*").Eq("id", id).Single().Execute(ctx, &p); err != nil {
		return nil, mapAPIError(err)
	}
	return &p, nil
}

type projectInsert struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GoalAmount  float64    `json:"goal_amount"`
	EndDate     model.Date `json:"end_date"`
	UserID      string     `json:"user_id"`
}

func (r *HostedProjectRepository) Create(ctx context.Context, p *model.Project) error {
	row := projectInsert{
		Title:       p.Title,
		Description: p.Description,
		GoalAmount:  p.GoalAmount,
		EndDate:     p.EndDate,
		UserID:      p.UserID,
	}
	return mapAPIError(r.c.From(tableProjects).Single().Insert(ctx, row, p))
}

// HostedPledgeRepository is the hosted data service PledgeRepository.
// The pledges_apply trigger enforces the remaining-amount guard server side.
type HostedPledgeRepository struct {
	c *dataservice.Client
}

// NewHostedPledgeRepository は HostedPledgeRepository を生成する
func NewHostedPledgeRepository(c *dataservice.Client) *HostedPledgeRepository {
	return &HostedPledgeRepository{c: c}
}

func (r *HostedPledgeRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error) {
	var pledges []*model.Pledge
	err := r.c.From(tablePledges).
		Select("id,project_id,user_id,amount,created_at").
		Eq("project_id", projectID).
		Order("created_at", true).
		Execute(ctx, &pledges)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return pledges, nil
}

type pledgeInsert struct {
	ProjectID string  `json:"project_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
}

func (r *HostedPledgeRepository) Create(ctx context.Context, p *model.Pledge) error {
	if funding.Cents(p.Amount) <= 0 {
		return ErrInvalidAmount
	}
	row := pledgeInsert{ProjectID: p.ProjectID, UserID: p.UserID, Amount: p.Amount}
	return mapAPIError(r.c.From(tablePledges).Single().Insert(ctx, row, p))
}

// HostedUpdateRepository is the hosted data service UpdateRepository.
type HostedUpdateRepository struct {
	c *dataservice.Client
}

// NewHostedUpdateRepository は HostedUpdateRepository を生成する
func NewHostedUpdateRepository(c *dataservice.Client) *HostedUpdateRepository {
	return &HostedUpdateRepository{c: c}
}

func (r *HostedUpdateRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	var updates []*model.Update
	err := r.c.From(tableUpdates).
		Select("*").
		Eq("project_id", projectID).
		Order("created_at", false).
		Execute(ctx, &updates)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return updates, nil
}

type updateInsert struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
}

func (r *HostedUpdateRepository) Create(ctx context.Context, u *model.Update) error {
	row := updateInsert{ProjectID: u.ProjectID, UserID: u.UserID, Content: u.Content}
	return mapAPIError(r.c.From(tableUpdates).Single().Insert(ctx, row, u))
}
