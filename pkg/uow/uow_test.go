package uow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct{}
type otherRepo struct{}

func newFakeFactory() RepositoryFactory {
	return func(DBTX) Repository {
		return &fakeRepo{}
	}
}

func TestRegister(t *testing.T) {
	u := NewUnitOfWork(nil)

	require.NoError(t, u.Register("fake", newFakeFactory()))
	assert.ErrorIs(t, u.Register("fake", newFakeFactory()), ErrRepositoryAlreadyRegistered)
}

func TestGetRepository(t *testing.T) {
	u := NewUnitOfWork(nil)
	require.NoError(t, u.Register("fake", newFakeFactory()))

	repo, err := u.GetRepository("fake")
	require.NoError(t, err)
	assert.IsType(t, &fakeRepo{}, repo)

	_, err = u.GetRepository("missing")
	assert.ErrorIs(t, err, ErrRepositoryNotRegistered)
}

func TestGetRepositoryAs(t *testing.T) {
	u := NewUnitOfWork(nil)
	require.NoError(t, u.Register("fake", newFakeFactory()))

	repo, err := GetRepositoryAs[*fakeRepo](u, "fake")
	require.NoError(t, err)
	assert.NotNil(t, repo)

	_, err = GetRepositoryAs[*otherRepo](u, "fake")
	assert.ErrorIs(t, err, ErrInvalidRepositoryType)

	_, err = GetRepositoryAs[*fakeRepo](u, "missing")
	assert.ErrorIs(t, err, ErrRepositoryNotRegistered)
}

func TestTransactionGet(t *testing.T) {
	repos := map[RepositoryName]RepositoryFactory{
		"fake": newFakeFactory(),
	}
	tx := NewTransaction(nil, repos)

	repo, err := tx.Get("fake")
	require.NoError(t, err)
	assert.IsType(t, &fakeRepo{}, repo)

	_, err = tx.Get("missing")
	assert.ErrorIs(t, err, ErrRepositoryNotRegistered)

	typed, err := GetAs[*fakeRepo](tx, "fake")
	require.NoError(t, err)
	assert.NotNil(t, typed)

	_, err = GetAs[*otherRepo](tx, "fake")
	assert.ErrorIs(t, err, ErrInvalidRepositoryType)
}
