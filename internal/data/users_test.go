package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserInsertHashesPassword(t *testing.T) {
	models, _ := newTestModels(t)

	user, err := models.Users.Insert(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestUserInsertRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	models, db := newTestModels(t)

	_, err := models.Users.Insert(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = models.Users.Insert(ctx, " alice ", "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Equal(t, 1, countRows(t, db, "users"))
}

func TestUserInsertRejectsBlankCredentials(t *testing.T) {
	models, db := newTestModels(t)

	_, err := models.Users.Insert(context.Background(), "  ", " ")

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Errors, "username")
	assert.Contains(t, valErr.Errors, "password")
	assert.Zero(t, countRows(t, db, "users"))
}

func TestUserAuthenticate(t *testing.T) {
	ctx := context.Background()
	models, _ := newTestModels(t)

	registered, err := models.Users.Insert(ctx, "alice", "s3cret")
	require.NoError(t, err)

	user, err := models.Users.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, wrongPassword := models.Users.Authenticate(ctx, "alice", "guess")
	_, unknownUser := models.Users.Authenticate(ctx, "mallory", "s3cret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser, "failures must be indistinguishable")
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Migrate(context.Background(), db))

	version, err := currentSchemaVersion(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
}

func TestSchemaRejectsUnknownGenre(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Exec(`INSERT INTO authors (name) VALUES ('x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO books (title, published_year, genre, author_name, author_id) VALUES ('t', 1900, 'POETRY', 'x', 1)`)
	assert.Error(t, err)
}

func TestDummyHashUsesModelCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 1} {
		got, err := bcrypt.Cost(dummyHash(cost))
		require.NoError(t, err)
		assert.Equal(t, cost, got)
	}

	assert.Equal(t, dummyHash(bcrypt.MinCost), dummyHash(bcrypt.MinCost), "computed once per cost")
	assert.Equal(t, bcrypt.DefaultCost, UserModel{}.cost())
}
