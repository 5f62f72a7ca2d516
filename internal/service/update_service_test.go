package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

func ownedProjects() *mockProjectRepository {
	return &mockProjectRepository{getByIDFunc: func(ctx context.Context, id string) (*model.Project, error) {
		return fixedProject(id, 100, 0), nil
	}}
}

func TestUpdateService_Create_OwnerSucceeds(t *testing.T) {
	var stored *model.Update
	updates := &mockUpdateRepository{createFunc: func(ctx context.Context, u *model.Update) error {
		stored = u
		u.ID = "up1"
		return nil
	}}

	got, err := NewUpdateService(ownedProjects(), updates).Create(context.Background(), "p1", "owner", "  Shipped!  ")
	require.NoError(t, err)
	assert.Equal(t, "up1", got.ID)
	assert.Equal(t, "Shipped!", stored.Content)
	assert.Equal(t, "owner", stored.UserID)
}

func TestUpdateService_Create_NonOwnerForbidden(t *testing.T) {
	updates := &mockUpdateRepository{createFunc: func(ctx context.Context, u *model.Update) error {
		t.Error("no insert expected")
		return nil
	}}
	_, err := NewUpdateService(ownedProjects(), updates).Create(context.Background(), "p1", "stranger", "hi")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateService_Create_EmptyContent(t *testing.T) {
	_, err := NewUpdateService(ownedProjects(), &mockUpdateRepository{}).Create(context.Background(), "p1", "owner", " \n ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "content", ve.Field)
}

func TestUpdateService_Create_StoreOwnershipCheck(t *testing.T) {
	updates := &mockUpdateRepository{createFunc: func(ctx context.Context, u *model.Update) error {
		return repository.ErrNotOwner
	}}
	_, err := NewUpdateService(ownedProjects(), updates).Create(context.Background(), "p1", "owner", "hi")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateService_Create_StoreFailure(t *testing.T) {
	boom := errors.New("boom")
	updates := &mockUpdateRepository{createFunc: func(ctx context.Context, u *model.Update) error { return boom }}
	_, err := NewUpdateService(ownedProjects(), updates).Create(context.Background(), "p1", "owner", "hi")
	assert.ErrorIs(t, err, boom)
}

func TestUpdateService_ListByProjectID(t *testing.T) {
	svc := NewUpdateService(ownedProjects(), &mockUpdateRepository{})
	got, err := svc.ListByProjectID(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	_, err = NewUpdateService(&mockProjectRepository{}, &mockUpdateRepository{}).ListByProjectID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
