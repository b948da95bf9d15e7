package repository

import (
	"context"
	"testing"

	"github.com/materials-commons/mccrud/pkg/tutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type owner struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type widget struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Size    int    `json:"size"`
	OwnerID int    `json:"owner_id"`
	Owner   *owner `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
}

func (w widget) Filter(db *gorm.DB, params map[string]string) *gorm.DB {
	if kind, ok := params["kind"]; ok {
		db = db.Where("kind = ?", kind)
	}

	return db
}

func setupWidgets(t *testing.T) *gorm.DB {
	t.Helper()
	db := tutil.NewTestDB(t, &owner{}, &widget{})
	seedWidgets(t, db)

	return db
}

func seedWidgets(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&owner{ID: 1, Name: "alice"}).Error)
	widgets := []widget{
		{Name: "w1", Kind: "round", Size: 1, OwnerID: 1},
		{Name: "w2", Kind: "square", Size: 2, OwnerID: 1},
		{Name: "w3", Kind: "round", Size: 3, OwnerID: 1},
		{Name: "w4", Kind: "square", Size: 4, OwnerID: 1},
		{Name: "w5", Kind: "round", Size: 5, OwnerID: 1},
	}
	require.NoError(t, db.Create(&widgets).Error)
}

func names(t *testing.T, records []any) []string {
	t.Helper()
	var out []string
	for _, r := range records {
		out = append(out, r.(*widget).Name)
	}
	return out
}

func TestGormRepositoryKeyAndPerPage(t *testing.T) {
	db := setupWidgets(t)
	r := NewGormRepository[widget](db)
	assert.Equal(t, "id", r.KeyName())
	assert.Equal(t, 15, r.PerPage())
}

func TestGormRepositoryQuery(t *testing.T) {
	db := setupWidgets(t)
	ctx := context.Background()

	t.Run("where and order", func(t *testing.T) {
		records, err := NewGormRepository[widget](db).
			Where("size", ">=", 3).
			OrderBy("size", "desc").
			All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"w5", "w4", "w3"}, names(t, records))
	})

	t.Run("in from a comma list", func(t *testing.T) {
		records, err := NewGormRepository[widget](db).Where("name", "in", "w1,w2").All(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("like and limit", func(t *testing.T) {
		records, err := NewGormRepository[widget](db).Where("name", "like", "w%").Limit(2).All(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("where key", func(t *testing.T) {
		records, err := NewGormRepository[widget](db).WhereKey("1", "3").All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"w1", "w3"}, names(t, records))
	})

	t.Run("select", func(t *testing.T) {
		record, err := NewGormRepository[widget](db).Select("name").OrderBy("id", "asc").First(ctx)
		require.NoError(t, err)
		assert.Equal(t, "w1", record.(*widget).Name)
		assert.Equal(t, 0, record.(*widget).Size)
	})

	t.Run("invalid column", func(t *testing.T) {
		_, err := NewGormRepository[widget](db).Where("size; drop table widgets", "=", 1).All(ctx)
		assert.ErrorIs(t, err, ErrInvalidColumn)
	})

	t.Run("invalid operator", func(t *testing.T) {
		_, err := NewGormRepository[widget](db).Where("size", "regexp", 1).All(ctx)
		assert.ErrorIs(t, err, ErrInvalidOperator)
	})

	t.Run("filters", func(t *testing.T) {
		records, err := NewGormRepository[widget](db).
			ApplyFilters(map[string]string{"kind": "square", "name": ""}).
			All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"w2", "w4"}, names(t, records))
	})
}

func TestGormRepositoryPaginate(t *testing.T) {
	db := setupWidgets(t)

	page, err := NewGormRepository[widget](db).OrderBy("id", "asc").Paginate(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 2, page.PerPage)
	assert.Equal(t, 5, page.From)
	assert.Equal(t, 5, page.To)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, []string{"w5"}, names(t, page.Data))

	page, err = NewGormRepository[widget](db).Paginate(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 15, page.PerPage)
	assert.Len(t, page.Data, 5)
}

func TestGormRepositoryEach(t *testing.T) {
	db := setupWidgets(t)
	ctx := context.Background()

	t.Run("rows", func(t *testing.T) {
		var seen []string
		err := NewGormRepository[widget](db).Each(ctx, func(record any) error {
			seen = append(seen, record.(*widget).Name)
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, seen, 5)
	})

	t.Run("batches with relations", func(t *testing.T) {
		r := NewGormRepository[widget](db)
		r.With("Owner")

		var owners []string
		err := r.Each(ctx, func(record any) error {
			owners = append(owners, record.(*widget).Owner.Name)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "alice", "alice", "alice", "alice"}, owners)
	})

	t.Run("presenter", func(t *testing.T) {
		r := NewGormRepository[widget](db)
		r.SetPresenter(func(record any) any {
			return record.(*widget).Name
		})

		var seen []any
		err := r.Limit(2).Each(ctx, func(record any) error {
			seen = append(seen, record)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"w1", "w2"}, seen)
	})
}

func TestGormRepositoryWrites(t *testing.T) {
	db := setupWidgets(t)
	ctx := context.Background()

	created, err := NewGormRepository[widget](db).Create(ctx, map[string]any{"name": "w6", "size": "6", "kind": "round"})
	require.NoError(t, err)
	w := created.(*widget)
	assert.NotZero(t, w.ID)
	assert.Equal(t, 6, w.Size)

	updated, err := NewGormRepository[widget](db).Update(ctx, map[string]any{"size": 60}, "6")
	require.NoError(t, err)
	assert.Equal(t, 60, updated.(*widget).Size)
	assert.Equal(t, "w6", updated.(*widget).Name)

	_, err = NewGormRepository[widget](db).Update(ctx, map[string]any{"size": 1}, "100")
	assert.ErrorIs(t, err, ErrNotFound)

	err = NewGormRepository[widget](db).Delete(ctx, "5,6,100")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.EqualValues(t, 6, count)

	require.NoError(t, NewGormRepository[widget](db).Delete(ctx, "5, 6"))
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	_, err = NewGormRepository[widget](db).Find(ctx, "5")
	assert.ErrorIs(t, err, ErrNotFound)
}
