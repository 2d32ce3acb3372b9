package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly/storefront-api/internal/testdb"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(testdb.Open(t)))
	require.NoError(t, err)
	return svc
}

func validInput() Input {
	return Input{
		FullName:     "Ada Lovelace",
		Phone:        "+44 20 7946 0000",
		AddressLine1: "12 St James's Square",
		City:         "London",
		State:        "Greater London",
		PostalCode:   "SW1Y 4JH",
		Country:      "UK",
	}
}

func TestCreateRequiresFields(t *testing.T) {
	svc := newTestService(t)
	in := validInput()
	in.City = "  "
	in.Country = ""

	_, err := svc.Create(context.Background(), uuid.New(), in)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]any{"missing": []string{"city", "country"}}, typed.Details())
}

func TestCreateDefaultsLine2(t *testing.T) {
	svc := newTestService(t)
	user := uuid.New()

	created, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)
	assert.Equal(t, "", created.AddressLine2)
	assert.Equal(t, user, created.UserID)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Update(ctx, stranger, created.ID, validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, stranger, created.ID), pkgerrors.CodeNotFound))

	list, err := svc.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "London", got.City)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	in := validInput()
	in.AddressLine2 = "Flat 3"
	in.City = "Bath"
	updated, err := svc.Update(ctx, owner, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Bath", updated.City)
	assert.Equal(t, "Flat 3", updated.AddressLine2)

	in.Phone = ""
	_, err = svc.Update(ctx, owner, created.ID, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, owner, created.ID), pkgerrors.CodeNotFound))
}
