//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/migrate"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/migrations"
)

const (
	ownerID    = "11111111-1111-1111-1111-111111111111"
	backerA    = "22222222-2222-2222-2222-222222222222"
	backerB    = "33333333-3333-3333-3333-333333333333"
	strangerID = "44444444-4444-4444-4444-444444444444"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("crowdfund_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = migrate.Up(ctx, pool, migrations.FS)
	require.NoError(t, err)
	return pool
}

func createPgProject(t *testing.T, repo *PgProjectRepository, goal float64) *model.Project {
	t.Helper()
	end, err := model.ParseDate("2030-01-01")
	require.NoError(t, err)
	p := &model.Project{Title: "Solar", Description: "Panels", GoalAmount: goal, EndDate: end, UserID: ownerID}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPgRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgres(t)
	ctx := context.Background()
	projects := NewPgProjectRepository(pool)
	pledges := NewPgPledgeRepository(pool)
	updates := NewPgUpdateRepository(pool)

	t.Run("create and get project", func(t *testing.T) {
		p := createPgProject(t, projects, 500)
		assert.NotEmpty(t, p.ID)
		assert.Zero(t, p.CurrentAmount)

		got, err := projects.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "2030-01-01", got.EndDate.String())
		assert.Equal(t, 500.0, got.GoalAmount)

		_, err = projects.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = projects.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("goal must be positive", func(t *testing.T) {
		end, _ := model.ParseDate("2030-01-01")
		err := projects.Create(ctx, &model.Project{Title: "x", GoalAmount: 0, EndDate: end, UserID: ownerID})
		assert.ErrorIs(t, err, ErrConstraint)
	})

	t.Run("pledges maintain aggregates", func(t *testing.T) {
		p := createPgProject(t, projects, 100)
		require.NoError(t, pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerA, Amount: 10}))
		require.NoError(t, pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerA, Amount: 15}))
		require.NoError(t, pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerB, Amount: 25}))

		got, err := projects.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, got.CurrentAmount)
		assert.Equal(t, 2, got.BackerCount)

		list, err := pledges.ListByProjectID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, 10.0, list[0].Amount)

		assert.ErrorIs(t, pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerA, Amount: 51}), ErrExceedsRemaining)
	})

	t.Run("fractional remainder fully funds", func(t *testing.T) {
		p := createPgProject(t, projects, 100)
		require.NoError(t, pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerA, Amount: 99.7}))
		require.NoError(t, pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerB, Amount: 0.3}))

		got, err := projects.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.CurrentAmount)
	})

	t.Run("trigger rejects direct over-pledge", func(t *testing.T) {
		p := createPgProject(t, projects, 20)
		_, err := pool.Exec(ctx, `INSERT INTO pledges (project_id, user_id, amount) VALUES ($1, $2, 30)`, p.ID, backerA)
		assert.ErrorIs(t, mapPgError(err), ErrExceedsRemaining)
	})

	t.Run("concurrent pledges never overfund", func(t *testing.T) {
		p := createPgProject(t, projects, 100)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = pledges.Create(ctx, &model.Pledge{ProjectID: p.ID, UserID: backerB, Amount: 15})
			}()
		}
		wg.Wait()

		got, err := projects.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 90.0, got.CurrentAmount)
		assert.Equal(t, 1, got.BackerCount)
	})

	t.Run("updates are owner only", func(t *testing.T) {
		p := createPgProject(t, projects, 100)
		err := updates.Create(ctx, &model.Update{ProjectID: p.ID, UserID: strangerID, Content: "hi"})
		assert.ErrorIs(t, err, ErrNotOwner)

		require.NoError(t, updates.Create(ctx, &model.Update{ProjectID: p.ID, UserID: ownerID, Content: "first"}))
		require.NoError(t, updates.Create(ctx, &model.Update{ProjectID: p.ID, UserID: ownerID, Content: "second"}))
		list, err := updates.ListByProjectID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Content)
	})

	t.Run("list orders by sort", func(t *testing.T) {
		list, err := projects.List(ctx, model.SortMostFunded)
		require.NoError(t, err)
		for i := 1; i < len(list); i++ {
			assert.GreaterOrEqual(t, list[i-1].CurrentAmount, list[i].CurrentAmount)
		}
	})
}
