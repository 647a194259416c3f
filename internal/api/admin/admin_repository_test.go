package admin

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

func userColumns() []string {
	return []string{
		"id", "email", "nome", "role", "status_assinatura", "data_inicio",
		"data_expiracao", "progresso_biblico", "created_at", "updated_at",
	}
}

func TestListUsers(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresAdminRepo(mockPool, slog.Default())
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows(userColumns()).
		AddRow(uuid.New(), "ana@example.com", "Ana", types.RoleUser, types.SubscriptionActive,
			now.AddDate(0, 0, -10), now.AddDate(0, 0, 20), 42, now, now).
		AddRow(uuid.New(), "bruno@example.com", "Bruno", types.RoleUser, types.SubscriptionTrial,
			now.AddDate(0, 0, -2), now.AddDate(0, 0, 5), 8, now.AddDate(0, 0, -2), now)

	mockPool.ExpectQuery("SELECT id, email, nome, role, status_assinatura").
		WillReturnRows(rows)

	users, err := repo.ListUsers(ctx, "")

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].Nome)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListUsersWithSearch(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresAdminRepo(mockPool, slog.Default())
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows(userColumns()).
		AddRow(uuid.New(), "ana@example.com", "Ana", types.RoleUser, types.SubscriptionTrial,
			now, now.AddDate(0, 0, 7), 0, now, now)

	mockPool.ExpectQuery("WHERE nome ILIKE \\$1 OR email ILIKE \\$1").
		WithArgs("%ana%").
		WillReturnRows(rows)

	users, err := repo.ListUsers(ctx, "ana")

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "ana@example.com", users[0].Email)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListUsersEscapesSearchWildcards(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresAdminRepo(mockPool, slog.Default())
	ctx := context.Background()

	// A bare "%" must match users whose name contains a literal percent
	// sign, not every row.
	mockPool.ExpectQuery("WHERE nome ILIKE \\$1 OR email ILIKE \\$1").
		WithArgs(`%\%%`).
		WillReturnRows(pgxmock.NewRows(userColumns()))

	users, err := repo.ListUsers(ctx, "%")

	assert.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestEscapeLikePattern(t *testing.T) {
	cases := map[string]string{
		"ana":       "ana",
		"%":         `\%`,
		"_":         `\_`,
		`\`:         `\\`,
		"50%_off":   `50\%\_off`,
		`a\%b`:      `a\\\%b`,
		"sem metas": "sem metas",
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeLikePattern(in), "input %q", in)
	}
}
