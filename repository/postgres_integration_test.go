//go:build postgres_integration

package repository

import (
	"context"
	"os"
	"testing"

	"timeboss-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()

	p, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Save(ctx, []*models.Crew{{ID: 901, Name: "Integration"}}, []*models.Job{{ID: 901, Description: "integration"}}))
	require.NoError(t, p.SaveUser(ctx, &models.User{ID: 901, Username: "pgcheck", PasswordHash: "h"}))

	crews, err := p.LoadCrews(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, crews)

	users, err := p.LoadUsers(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == 901 {
			assert.Equal(t, "h", u.PasswordHash)
		}
	}
}
