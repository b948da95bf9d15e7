package repository

import (
	"context"
	"testing"

	"github.com/materials-commons/mccrud/pkg/tutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepositoryMySQL(t *testing.T) {
	db := tutil.NewMySQLTestDB(t, &owner{}, &widget{})
	seedWidgets(t, db)
	ctx := context.Background()

	t.Run("paginate", func(t *testing.T) {
		page, err := NewGormRepository[widget](db).
			ApplyFilters(map[string]string{"kind": "round"}).
			OrderBy("size", "desc").
			Paginate(ctx, 1, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total)
		assert.Equal(t, 2, page.LastPage)
		assert.Equal(t, []string{"w5", "w3"}, names(t, page.Data))
	})

	t.Run("each with relations", func(t *testing.T) {
		r := NewGormRepository[widget](db)
		r.With("Owner")

		var seen []string
		err := r.OrderBy("id", "asc").Each(ctx, func(record any) error {
			w := record.(*widget)
			seen = append(seen, w.Name+"/"+w.Owner.Name)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"w1/alice", "w2/alice", "w3/alice", "w4/alice", "w5/alice"}, seen)
	})

	t.Run("writes", func(t *testing.T) {
		created, err := NewGormRepository[widget](db).Create(ctx, map[string]any{"name": "w6", "size": "6", "owner_id": 1})
		require.NoError(t, err)
		id := created.(*widget).ID

		updated, err := NewGormRepository[widget](db).Update(ctx, map[string]any{"kind": "oval"}, "6")
		require.NoError(t, err)
		assert.Equal(t, "oval", updated.(*widget).Kind)
		assert.Equal(t, 6, id)

		assert.ErrorIs(t, NewGormRepository[widget](db).Delete(ctx, "6,100"), ErrNotFound)
		require.NoError(t, NewGormRepository[widget](db).Delete(ctx, "6"))

		_, err = NewGormRepository[widget](db).Find(ctx, "6")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
