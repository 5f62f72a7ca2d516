package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

type pgPledgeRepository struct {
	pool *pgxpool.Pool
}

// NewPgPledgeRepository returns a PostgreSQL-backed PledgeRepository.
func NewPgPledgeRepository(pool *pgxpool.Pool) PledgeRepository {
	return &pgPledgeRepository{pool: pool}
}

func (r *pgPledgeRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, user_id, amount, created_at
		 FROM pledges WHERE project_id = $1
		 ORDER BY created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var pledges []*model.Pledge
	for rows.Next() {
		p := &model.Pledge{}
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.UserID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, err
		}
		pledges = append(pledges, p)
	}
	return pledges, rows.Err()
}

// Create locks the project row, checks the remaining amount and inserts the pledge.
// The pledges_apply trigger performs the same check and maintains the aggregates.
func (r *pgPledgeRepository) Create(ctx context.Context, p *model.Pledge) (err error) {
	if funding.Cents(p.Amount) <= 0 {
		return ErrInvalidAmount
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var goal, current float64
	err = tx.QueryRow(ctx,
		`SELECT goal_amount, current_amount FROM projects WHERE id = $1 FOR UPDATE`,
		p.ProjectID).Scan(&goal, &current)
	if err != nil {
		return mapPgError(err)
	}
	if funding.ExceedsRemaining(p.Amount, goal, current) {
		return ErrExceedsRemaining
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO pledges (project_id, user_id, amount)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.ProjectID, p.UserID, p.Amount,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return mapPgError(err)
	}
	return tx.Commit(ctx)
}
