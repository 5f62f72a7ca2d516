package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// PgProjectRepository は ProjectRepository の PostgreSQL 実装
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

const projectSelectCols = `id, title, description, goal_amount, current_amount, end_date, backer_count, created_at, user_id`

func scanProject(scan func(...any) error) (*model.Project, error) {
	p := &model.Project{}
	err := scan(&p.ID, &p.Title, &p.Description, &p.GoalAmount, &p.CurrentAmount,
		&p.EndDate.Time, &p.BackerCount, &p.CreatedAt, &p.UserID)
	return p, err
}

// List はプロジェクト一覧を取得する
func (r *PgProjectRepository) List(ctx context.Context, sort model.ProjectSort) ([]*model.Project, error) {
	column, ascending := sort.OrderColumn()
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	// column は OrderColumn の固定値のみ
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM projects ORDER BY %s %s, created_at DESC`, projectSelectCols, column, dir))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByID は ID でプロジェクトを取得する
func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx,
		`SELECT `+projectSelectCols+` FROM projects WHERE id = $1`, id).Scan)
	if err != nil {
		return nil, mapPgError(err)
	}
	return p, nil
}

// Create はプロジェクトを作成する
func (r *PgProjectRepository) Create(ctx context.Context, p *model.Project) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO projects (title, description, goal_amount, end_date, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, current_amount, backer_count, created_at`,
		p.Title, p.Description, p.GoalAmount, p.EndDate.Time, p.UserID,
	).Scan(&p.ID, &p.CurrentAmount, &p.BackerCount, &p.CreatedAt)
	return mapPgError(err)
}
