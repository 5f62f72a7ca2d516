package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

// UpdateService はプロジェクトの近況報告に関するビジネスロジックのインターフェース
type UpdateService interface {
	// ListByProjectID returns updates newest first; repository.ErrNotFound for unknown projects.
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error)
	// Create posts an update. Only the project owner may post (ErrForbidden).
	Create(ctx context.Context, projectID, userID, content string) (*model.Update, error)
}

type updateService struct {
	projects repository.ProjectRepository
	updates  repository.UpdateRepository
}

// NewUpdateService は UpdateService を生成する
func NewUpdateService(projects repository.ProjectRepository, updates repository.UpdateRepository) UpdateService {
	return &updateService{projects: projects, updates: updates}
}

func (s *updateService) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	if updates == nil {
		updates = []*model.Update{}
	}
	return updates, nil
}

func (s *updateService) Create(ctx context.Context, projectID, userID, content string) (*model.Update, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "content is required")
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if userID == "" || p.UserID != userID {
		return nil, ErrForbidden
	}

	u := &model.Update{ProjectID: projectID, UserID: userID, Content: content}
	if err := s.updates.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotOwner) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("create update: %w", err)
	}
	return u, nil
}
