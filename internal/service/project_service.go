package service

import (
	"context"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// CreateProjectInput は作成フォームの入力値。GoalAmount は解釈できない場合 NaN
type CreateProjectInput struct {
	Title       string
	Description string
	GoalAmount  float64
	EndDate     string
	UserID      string
}

// ProjectService はプロジェクトに関するビジネスロジックのインターフェース
type ProjectService interface {
	// List returns projects ordered by sort and filtered by search on title or description.
	List(ctx context.Context, sort model.ProjectSort, search string) ([]*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	// Details loads the project with its updates and pledges and derives the metrics.
	// viewerID may be empty for anonymous visitors.
	Details(ctx context.Context, id, viewerID string) (*model.ProjectDetails, error)
	// Chart returns the cumulative funding series of the project.
	Chart(ctx context.Context, id string) ([]model.ChartPoint, error)
}
