package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/plateful-backend/internal/models"
	"github.com/plateful/plateful-backend/internal/service"
	"github.com/plateful/plateful-backend/internal/testhelpers"
)

// TestConcurrentLikesNoLostUpdates hammers one recipe with parallel like
// toggles from distinct users against real Postgres. Every toggle must
// land: the final count equals the number of users.
func TestConcurrentLikesNoLostUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupPostgresDatabase(t)
	svc := service.NewInteractionService(db)

	owner := testhelpers.CreateTestUser(t, db, "Alice", "a@x.com")
	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Pancakes")

	const likers = 20
	users := make([]*models.User, likers)
	for i := range users {
		users[i] = testhelpers.CreateTestUser(t, db, fmt.Sprintf("User%d", i), fmt.Sprintf("u%d@x.com", i))
	}

	toggleAll := func() {
		var wg sync.WaitGroup
		errs := make(chan error, likers)
		for _, u := range users {
			wg.Add(1)
			go func(userID uuid.UUID) {
				defer wg.Done()
				_, _, err := svc.ToggleLike(context.Background(), recipe.ID, userID)
				errs <- err
			}(u.ID)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}

	toggleAll()

	count, err := svc.LikeCount(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, likers, count)

	// A second round of toggles removes every like.
	toggleAll()

	count, err = svc.LikeCount(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

// TestConcurrentSameUserToggles races one user's toggles against each
// other on real Postgres. Losing the insert race must resolve to the
// liked state, never to an aborted transaction, and the liker set must
// end with at most one row for the user.
func TestConcurrentSameUserToggles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupPostgresDatabase(t)
	svc := service.NewInteractionService(db)

	owner := testhelpers.CreateTestUser(t, db, "Alice", "a@x.com")
	liker := testhelpers.CreateTestUser(t, db, "Bob", "b@x.com")
	recipe := testhelpers.CreateTestRecipe(t, db, owner, "Pancakes")

	const toggles = 10
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.ToggleLike(context.Background(), recipe.ID, liker.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := svc.LikeCount(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))
}
