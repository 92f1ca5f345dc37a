package labor

import (
	"sync"
	"testing"

	apperrors "farmgate/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLaborers(t *testing.T) {
	store := NewStore()

	t.Run("blank filters return everyone sorted by rating", func(t *testing.T) {
		all := store.ListLaborers("", "")
		require.Len(t, all, 4)
		for i := 1; i < len(all); i++ {
			assert.GreaterOrEqual(t, all[i-1].Rating, all[i].Rating)
		}
	})

	t.Run("skill filter is a case-insensitive substring", func(t *testing.T) {
		out := store.ListLaborers("HARVEST", "")
		require.Len(t, out, 2)
		for _, l := range out {
			assert.True(t, hasSkill(l.Skills, "harvest"))
		}
	})

	t.Run("location narrows further", func(t *testing.T) {
		out := store.ListLaborers("harvest", "lira")
		require.Len(t, out, 1)
		assert.Equal(t, "Achan Grace", out[0].Name)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		assert.Empty(t, store.ListLaborers("welding", ""))
	})
}

func TestGroups(t *testing.T) {
	store := NewStore()

	t.Run("creator leads and is first member", func(t *testing.T) {
		g, err := store.CreateGroup("user-1", "Gulu Harvest Crew", "Seasonal harvesting")
		require.NoError(t, err)
		assert.Equal(t, "user-1", g.LeaderID)
		assert.Equal(t, []string{"user-1"}, g.Members)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := store.CreateGroup("user-1", "   ", "")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})

	t.Run("join adds a member once", func(t *testing.T) {
		g, err := store.CreateGroup("leader", "Weeding Group", "")
		require.NoError(t, err)

		joined, err := store.JoinGroup(g.ID, "user-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"leader", "user-2"}, joined.Members)

		_, err = store.JoinGroup(g.ID, "user-2")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("joining a missing group is not found", func(t *testing.T) {
		_, err := store.JoinGroup("nope", "user-2")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})
}

func TestBookings(t *testing.T) {
	store := NewStore()
	laborer := store.ListLaborers("", "")[0]

	t.Run("booking starts pending", func(t *testing.T) {
		b, err := store.RequestBooking(laborer.ID, "user-9", "2026-09-15", "Two acres of maize")
		require.NoError(t, err)
		assert.Equal(t, BookingStatusPending, b.Status)
		assert.Equal(t, laborer.ID, b.LaborerID)

		mine := store.BookingsForUser("user-9")
		require.Len(t, mine, 1)
		assert.Equal(t, b.ID, mine[0].ID)
	})

	t.Run("unknown laborer", func(t *testing.T) {
		_, err := store.RequestBooking("ghost", "user-9", "2026-09-15", "")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})

	t.Run("date required", func(t *testing.T) {
		_, err := store.RequestBooking(laborer.ID, "user-9", "", "")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	g, err := store.CreateGroup("leader", "Busy Group", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			store.ListLaborers("", "")
		}(i)
		go func(n int) {
			defer wg.Done()
			store.JoinGroup(g.ID, string(rune('a'+n%26)))
		}(i)
	}
	wg.Wait()

	joined, err := store.JoinGroup(g.ID, "final-member")
	require.NoError(t, err)
	assert.Contains(t, joined.Members, "leader")
}
