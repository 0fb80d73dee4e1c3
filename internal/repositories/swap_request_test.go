package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapRequestRepositories(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	readRepo := NewSwapRequestReadRepository(db, nil)
	writeRepo := NewSwapRequestWriteRepository(db, nil)

	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	u3 := createUser(t, db, "u3")
	logo := createSkill(t, db, "Logo Design")

	id, err := writeRepo.Save(ctx, models.NewSwapRequest{
		SenderID:        u2.ID,
		ReceiverID:      u1.ID,
		ReceiverSkillID: &logo.ID,
		Message:         "swap?",
	})
	require.NoError(t, err)

	t.Run("VisibleToParties", func(t *testing.T) {
		for _, userID := range []int64{u1.ID, u2.ID} {
			swap, err := readRepo.GetByIDForUser(ctx, id, userID)
			require.NoError(t, err)
			require.NotNil(t, swap)
			assert.Equal(t, models.SwapStatusPending, swap.Status)
			assert.Equal(t, "u2", swap.SenderUsername)
			assert.Equal(t, "u1", swap.ReceiverUsername)
			assert.Nil(t, swap.SenderSkillID)
			assert.Equal(t, "Logo Design", *swap.ReceiverSkillName)
		}
	})

	t.Run("HiddenFromThirdParty", func(t *testing.T) {
		swap, err := readRepo.GetByIDForUser(ctx, id, u3.ID)
		assert.NoError(t, err)
		assert.Nil(t, swap)
	})

	t.Run("ListForUserPartitionsByRole", func(t *testing.T) {
		all, err := readRepo.ListForUser(ctx, u1.ID, models.SwapRoleAny)
		assert.NoError(t, err)
		assert.Len(t, all, 1)

		sent, err := readRepo.ListForUser(ctx, u1.ID, models.SwapRoleSender)
		assert.NoError(t, err)
		assert.Empty(t, sent)

		received, err := readRepo.ListForUser(ctx, u1.ID, models.SwapRoleReceiver)
		assert.NoError(t, err)
		assert.Len(t, received, 1)

		none, err := readRepo.ListForUser(ctx, u3.ID, models.SwapRoleAny)
		assert.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("HasPending", func(t *testing.T) {
		pending, err := readRepo.HasPending(ctx, u2.ID, u1.ID)
		assert.NoError(t, err)
		assert.True(t, pending)

		pending, err = readRepo.HasPending(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.False(t, pending)
	})

	t.Run("ConcurrentTransitionsHaveOneWinner", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make([]bool, 2)
		statuses := []string{models.SwapStatusAccepted, models.SwapStatusRejected}
		for i := range statuses {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ok, err := writeRepo.UpdateStatusFromPending(ctx, id, statuses[i])
				assert.NoError(t, err)
				results[i] = ok
			}(i)
		}
		wg.Wait()

		assert.NotEqual(t, results[0], results[1])

		swap, err := readRepo.GetByIDForUser(ctx, id, u1.ID)
		require.NoError(t, err)
		if results[0] {
			assert.Equal(t, models.SwapStatusAccepted, swap.Status)
		} else {
			assert.Equal(t, models.SwapStatusRejected, swap.Status)
		}

		ok, err := writeRepo.UpdateStatusFromPending(ctx, id, models.SwapStatusAccepted)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ConcurrentPendingInsertsHaveOneWinner", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = writeRepo.Save(ctx, models.NewSwapRequest{SenderID: u3.ID, ReceiverID: u2.ID})
			}(i)
		}
		wg.Wait()

		if errs[0] == nil {
			assert.ErrorIs(t, errs[1], models.ErrUniqueViolation)
		} else {
			assert.ErrorIs(t, errs[0], models.ErrUniqueViolation)
			assert.NoError(t, errs[1])
		}

		sent, err := readRepo.ListForUser(ctx, u3.ID, models.SwapRoleSender)
		require.NoError(t, err)
		assert.Len(t, sent, 1)
	})

	t.Run("PendingCheckRacesInsideTransactions", func(t *testing.T) {
		txRepo := func(tx *sqlx.Tx) (*SwapRequestReadRepository, *SwapRequestWriteRepository) {
			getter := func(context.Context) *sqlx.Tx { return tx }
			return NewSwapRequestReadRepository(db, getter), NewSwapRequestWriteRepository(db, getter)
		}

		tx1, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		tx2, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		defer tx2.Rollback()

		r1, w1 := txRepo(tx1)
		r2, w2 := txRepo(tx2)

		pending, err := r1.HasPending(ctx, u1.ID, u3.ID)
		require.NoError(t, err)
		assert.False(t, pending)
		pending, err = r2.HasPending(ctx, u1.ID, u3.ID)
		require.NoError(t, err)
		assert.False(t, pending)

		_, err = w1.Save(ctx, models.NewSwapRequest{SenderID: u1.ID, ReceiverID: u3.ID})
		require.NoError(t, err)

		// The second insert waits on the first transaction's index entry.
		done := make(chan error, 1)
		go func() {
			_, err := w2.Save(ctx, models.NewSwapRequest{SenderID: u1.ID, ReceiverID: u3.ID})
			done <- err
		}()

		require.NoError(t, tx1.Commit())
		assert.ErrorIs(t, <-done, models.ErrUniqueViolation)
	})

	t.Run("FinalizedRequestAllowsNewPending", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, models.NewSwapRequest{SenderID: u2.ID, ReceiverID: u1.ID})
		assert.NoError(t, err)
	})

	t.Run("SkillDeleteNullsReference", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, logo.ID)
		require.NoError(t, err)

		swap, err := readRepo.GetByIDForUser(ctx, id, u2.ID)
		require.NoError(t, err)
		require.NotNil(t, swap)
		assert.Nil(t, swap.ReceiverSkillID)
		assert.Nil(t, swap.ReceiverSkillName)
	})

	t.Run("StatusCheckConstraint", func(t *testing.T) {
		otherID, err := writeRepo.Save(ctx, models.NewSwapRequest{SenderID: u3.ID, ReceiverID: u1.ID})
		require.NoError(t, err)

		_, err = writeRepo.UpdateStatusFromPending(ctx, otherID, "cancelled")
		assert.Error(t, err)
	})
}
