package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

type pgUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewPgUpdateRepository returns a PostgreSQL-backed UpdateRepository.
func NewPgUpdateRepository(pool *pgxpool.Pool) UpdateRepository {
	return &pgUpdateRepository{pool: pool}
}

func (r *pgUpdateRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, user_id, content, created_at
		 FROM updates WHERE project_id = $1
		 ORDER BY created_at DESC, id DESC`, projectID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var updates []*model.Update
	for rows.Next() {
		u := &model.Update{}
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.UserID, &u.Content, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// Create は近況報告を追加する。所有者チェックは updates_owner_only トリガーが行う
func (r *pgUpdateRepository) Create(ctx context.Context, u *model.Update) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO updates (project_id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.ProjectID, u.UserID, u.Content,
	).Scan(&u.ID, &u.CreatedAt)
	return mapPgError(err)
}
