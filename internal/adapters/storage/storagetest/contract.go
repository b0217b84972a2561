// Package storagetest contiene los casos compartidos por todas las implementaciones
// de park.DinoRepository y park.GridRepository.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dino-park/internal/domain/park"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newDino(id int64, herbivore bool) park.Dino {
	return park.Dino{
		ID:                     id,
		Name:                   "Dino",
		Species:                "Velociraptor",
		Gender:                 "female",
		DigestionPeriodInHours: 6,
		Herbivore:              herbivore,
		Time:                   base,
		ParkID:                 1,
		IsHungry:               true,
	}
}

// RunDinoRepository ejercita el contrato de DinoRepository sobre un repo vacío.
func RunDinoRepository(t *testing.T, newRepo func(t *testing.T) park.DinoRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Insert(ctx, newDino(1042, false)))

		got, err := r.GetByID(ctx, 1042)
		require.NoError(t, err)
		assert.Equal(t, "Velociraptor", got.Species)
		assert.True(t, got.Time.Equal(base))
		assert.True(t, got.IsHungry)
		assert.Nil(t, got.Location)
		assert.Nil(t, got.LastFed)

		assert.ErrorIs(t, r.Insert(ctx, newDino(1042, true)), park.ErrAlreadyExists)
	})

	t.Run("get missing", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.GetByID(ctx, 7)
		assert.ErrorIs(t, err, park.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Insert(ctx, newDino(1, true)))
		require.NoError(t, r.Delete(ctx, 1))
		require.NoError(t, r.Delete(ctx, 1))

		_, err := r.GetByID(ctx, 1)
		assert.ErrorIs(t, err, park.ErrNotFound)
	})

	t.Run("location and listing order", func(t *testing.T) {
		r := newRepo(t)
		for _, id := range []int64{30, 10, 20} {
			require.NoError(t, r.Insert(ctx, newDino(id, id != 20)))
		}
		require.NoError(t, r.SetLocation(ctx, 30, "B7"))
		require.NoError(t, r.SetLocation(ctx, 10, "B7"))
		require.NoError(t, r.SetLocation(ctx, 20, "C1"))

		inB7, err := r.ListByLocation(ctx, "B7")
		require.NoError(t, err)
		require.Len(t, inB7, 2)
		assert.Equal(t, int64(10), inB7[0].ID)
		assert.Equal(t, int64(30), inB7[1].ID)

		all, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{10, 20, 30}, []int64{all[0].ID, all[1].ID, all[2].ID})

		empty, err := r.ListByLocation(ctx, "Z16")
		require.NoError(t, err)
		assert.Empty(t, empty)

		assert.ErrorIs(t, r.SetLocation(ctx, 99, "A1"), park.ErrNotFound)
	})

	t.Run("fed then hungry", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Insert(ctx, newDino(5, false)))

		fedAt := base.Add(90 * time.Minute)
		require.NoError(t, r.MarkFed(ctx, 5, fedAt))

		got, err := r.GetByID(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got.LastFed)
		assert.True(t, got.LastFed.Equal(fedAt))
		assert.False(t, got.IsHungry)

		require.NoError(t, r.MarkHungry(ctx, 5))
		got, err = r.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.True(t, got.IsHungry)
		assert.True(t, got.LastFed.Equal(fedAt))

		assert.ErrorIs(t, r.MarkFed(ctx, 6, fedAt), park.ErrNotFound)
		assert.ErrorIs(t, r.MarkHungry(ctx, 6), park.ErrNotFound)
	})
}

// RunGridRepository ejercita el contrato de GridRepository sobre un repo vacío.
func RunGridRepository(t *testing.T, newRepo func(t *testing.T) park.GridRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("seed once", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Seed(ctx, park.GridLocations())
		require.NoError(t, err)
		assert.True(t, created)

		created, err = r.Seed(ctx, park.GridLocations())
		require.NoError(t, err)
		assert.False(t, created)

		cells, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, cells, 416)
		for _, c := range cells {
			assert.Equal(t, park.GridStatusNA, c.Status)
			assert.False(t, c.RepairRequired)
			assert.Nil(t, c.MaintenanceDue)
		}
	})

	t.Run("visit keeps first due", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Seed(ctx, []string{"B7"})
		require.NoError(t, err)

		first := base
		require.NoError(t, r.RecordVisit(ctx, "B7", first, park.NextMaintenance(first)))
		second := base.Add(48 * time.Hour)
		require.NoError(t, r.RecordVisit(ctx, "B7", second, park.NextMaintenance(second)))

		c, err := r.GetByLocation(ctx, "B7")
		require.NoError(t, err)
		require.NotNil(t, c.LastVisited)
		require.NotNil(t, c.MaintenanceDue)
		assert.True(t, c.LastVisited.Equal(second))
		assert.True(t, c.MaintenanceDue.Equal(park.NextMaintenance(first)))
	})

	t.Run("repair then maintenance", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Seed(ctx, []string{"C3"})
		require.NoError(t, err)

		require.NoError(t, r.MarkRepairRequired(ctx, "C3"))
		c, err := r.GetByLocation(ctx, "C3")
		require.NoError(t, err)
		assert.True(t, c.RepairRequired)

		at := base.Add(time.Hour)
		due := park.NextMaintenance(at)
		require.NoError(t, r.RecordMaintenance(ctx, "C3", at, &due))
		c, err = r.GetByLocation(ctx, "C3")
		require.NoError(t, err)
		assert.False(t, c.RepairRequired)
		require.NotNil(t, c.LastMaintenance)
		assert.True(t, c.LastMaintenance.Equal(at))
		require.NotNil(t, c.MaintenanceDue)
		assert.True(t, c.MaintenanceDue.Equal(due))

		require.NoError(t, r.RecordMaintenance(ctx, "C3", at, nil))
		c, err = r.GetByLocation(ctx, "C3")
		require.NoError(t, err)
		assert.Nil(t, c.MaintenanceDue)
	})

	t.Run("status and missing cell", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Seed(ctx, []string{"A1"})
		require.NoError(t, err)

		require.NoError(t, r.SetStatus(ctx, "A1", park.GridStatusUnsafe))
		c, err := r.GetByLocation(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, park.GridStatusUnsafe, c.Status)

		_, err = r.GetByLocation(ctx, "Q9")
		assert.ErrorIs(t, err, park.ErrNotFound)
		assert.ErrorIs(t, r.SetStatus(ctx, "Q9", park.GridStatusSafe), park.ErrNotFound)
		assert.ErrorIs(t, r.MarkRepairRequired(ctx, "Q9"), park.ErrNotFound)
	})
}
