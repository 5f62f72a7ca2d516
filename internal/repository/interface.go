package repository

import (
	"context"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ProjectRepository はプロジェクト永続化のインターフェース
type ProjectRepository interface {
	// List returns every project ordered by sort. Ordering is done by the store.
	List(ctx context.Context, sort model.ProjectSort) ([]*model.Project, error)
	// GetByID returns ErrNotFound when no project has id.
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// Create inserts p and fills the store-assigned fields (id, created_at, aggregates).
	Create(ctx context.Context, p *model.Project) error
}

// PledgeRepository handles persistence for pledges.
type PledgeRepository interface {
	// ListByProjectID returns pledges oldest first.
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error)
	// Create inserts one pledge and updates the project's aggregates atomically.
	// Returns ErrExceedsRemaining if the amount is larger than goal minus current,
	// ErrInvalidAmount if it is not positive and ErrNotFound if the project is gone.
	Create(ctx context.Context, p *model.Pledge) error
}

// UpdateRepository はプロジェクト近況報告の永続化インターフェース
type UpdateRepository interface {
	// ListByProjectID returns updates newest first.
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error)
	// Create returns ErrNotOwner when u.UserID does not own the project.
	Create(ctx context.Context, u *model.Update) error
}
