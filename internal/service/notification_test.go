package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/plateful-backend/internal/models"
	"github.com/plateful/plateful-backend/internal/service"
	"github.com/plateful/plateful-backend/internal/testhelpers"
)

// seedNotifications posts comments from each commenter so the recipe owner
// accumulates one notification per comment.
func seedNotifications(t *testing.T, svc *service.InteractionService, recipe *models.Recipe, commenters ...*models.User) {
	t.Helper()
	for _, c := range commenters {
		_, err := svc.PostComment(context.Background(), recipe.ID, c.ID, "nice")
		require.NoError(t, err)
	}
}

func TestNotificationsScopedToRecipient(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	interactions := service.NewInteractionService(db)
	svc := service.NewNotificationService(db)

	alice := testhelpers.CreateTestUser(t, db, "Alice", "a@x.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "b@x.com")
	carol := testhelpers.CreateTestUser(t, db, "Carol", "c@x.com")

	aliceRecipe := testhelpers.CreateTestRecipe(t, db, alice, "Pancakes")
	bobRecipe := testhelpers.CreateTestRecipe(t, db, bob, "Waffles")

	seedNotifications(t, interactions, aliceRecipe, bob, carol)
	seedNotifications(t, interactions, bobRecipe, carol)

	aliceList, err := svc.List(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceList, 2)

	bobList, err := svc.List(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, bobList, 1)

	// Bob cannot mark or delete notifications that belong to Alice.
	err = svc.MarkRead(context.Background(), aliceList[0].ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	err = svc.Delete(context.Background(), aliceList[0].ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	unread, err := svc.UnreadCount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	interactions := service.NewInteractionService(db)
	svc := service.NewNotificationService(db)

	alice := testhelpers.CreateTestUser(t, db, "Alice", "a@x.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "b@x.com")
	recipe := testhelpers.CreateTestRecipe(t, db, alice, "Pancakes")

	seedNotifications(t, interactions, recipe, bob, bob, bob)

	list, err := svc.List(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.NoError(t, svc.MarkRead(context.Background(), list[0].ID, alice.ID))

	unread, err := svc.UnreadCount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, svc.MarkAllRead(context.Background(), alice.ID))

	unread, err = svc.UnreadCount(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestDeleteNotification(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	interactions := service.NewInteractionService(db)
	svc := service.NewNotificationService(db)

	alice := testhelpers.CreateTestUser(t, db, "Alice", "a@x.com")
	bob := testhelpers.CreateTestUser(t, db, "Bob", "b@x.com")
	recipe := testhelpers.CreateTestRecipe(t, db, alice, "Pancakes")

	seedNotifications(t, interactions, recipe, bob)

	list, err := svc.List(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(context.Background(), list[0].ID, alice.ID))

	// Deleting again reports not found.
	err = svc.Delete(context.Background(), list[0].ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	list, err = svc.List(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
