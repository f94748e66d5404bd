package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/MegaGrindStone/estate-analyst-web/internal/handlers"
	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
	"github.com/MegaGrindStone/estate-analyst-web/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBolt(t *testing.T) services.BoltDB {
	t.Helper()
	db, err := services.NewBoltDB(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) handlers.Store{
		"memory": func(*testing.T) handlers.Store { return services.NewMemory() },
		"bolt":   func(t *testing.T) handlers.Store { return newBolt(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("keeps insertion order", func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()

				require.NoError(t, store.AddSession(ctx, models.Session{ID: "s1", CreatedAt: time.Now()}))

				// Enough messages to catch lexical ordering of keys.
				for i := range 12 {
					require.NoError(t, store.AddMessage(ctx, "s1", models.NewUserMessage(fmt.Sprintf("q%d", i))))
				}

				msgs, err := store.Messages(ctx, "s1")
				require.NoError(t, err)
				require.Len(t, msgs, 12)
				for i, m := range msgs {
					assert.Equal(t, fmt.Sprintf("q%d", i), m.Text)
				}
			})

			t.Run("round trips bot messages", func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()
				require.NoError(t, store.AddSession(ctx, models.Session{ID: "s2"}))

				price := 7200.0
				bot := models.NewBotMessage(models.QueryResult{
					Summary: "**Wakad**",
					ChartData: []models.SeriesPoint{
						{Year: 2020, Metrics: map[string]models.AreaMetrics{"Wakad": {Price: &price}}},
					},
					TableData: []models.Row{{Year: 2020, Area: "Wakad", PricePerSqFt: price}},
					Areas:     []string{"Wakad"},
				})
				require.NoError(t, store.AddMessage(ctx, "s2", bot))

				msgs, err := store.Messages(ctx, "s2")
				require.NoError(t, err)
				require.Len(t, msgs, 1)

				got := msgs[0]
				assert.Equal(t, bot.ID, got.ID)
				assert.Equal(t, models.RoleBot, got.Role)
				assert.Equal(t, "**Wakad**", got.Summary)
				v, ok := got.Series[0].Price("Wakad")
				assert.True(t, ok)
				assert.InDelta(t, price, v, 0.0001)
				assert.Equal(t, bot.Rows, got.Rows)
			})

			t.Run("unknown and deleted sessions", func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()

				_, err := store.Messages(ctx, "missing")
				assert.ErrorIs(t, err, models.ErrSessionNotFound)
				assert.ErrorIs(t, store.AddMessage(ctx, "missing", models.NewErrorMessage()), models.ErrSessionNotFound)

				require.NoError(t, store.AddSession(ctx, models.Session{ID: "s3"}))
				require.NoError(t, store.AddMessage(ctx, "s3", models.NewWelcomeMessage()))
				require.NoError(t, store.DeleteSession(ctx, "s3"))

				_, err = store.Messages(ctx, "s3")
				assert.ErrorIs(t, err, models.ErrSessionNotFound)
				assert.NoError(t, store.DeleteSession(ctx, "s3"))
			})
		})
	}
}

func TestBoltDBPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	db, err := services.NewBoltDB(path)
	require.NoError(t, err)
	require.NoError(t, db.AddSession(ctx, models.Session{ID: "s"}))
	require.NoError(t, db.AddMessage(ctx, "s", models.NewUserMessage("Compare Aundh and Wakad")))
	require.NoError(t, db.Close())

	db, err = services.NewBoltDB(path)
	require.NoError(t, err)
	defer db.Close()

	msgs, err := db.Messages(ctx, "s")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Compare Aundh and Wakad", msgs[0].Text)
}
