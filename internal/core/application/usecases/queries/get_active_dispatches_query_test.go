package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetActiveDispatchesQuery_Valid(t *testing.T) {
	query := queries.NewGetActiveDispatchesQuery()
	err := query.Validate()
	require.NoError(t, err)
}

func TestGetActiveDispatchesQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetActiveDispatchesQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetActiveDispatchesQueryIsNotConstructed)
}
