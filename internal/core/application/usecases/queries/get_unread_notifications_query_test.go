package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetUnreadNotificationsQuery_Valid(t *testing.T) {
	ref, err := recipient.NewDriverRef(kernel.NewUUID())
	require.NoError(t, err)

	query, err := queries.NewGetUnreadNotificationsQuery(ref)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, ref, query.Target())
}

func TestNewGetUnreadNotificationsQuery_AdminBroadcast(t *testing.T) {
	query, err := queries.NewGetUnreadNotificationsQuery(recipient.NewAdminBroadcastRef())
	require.NoError(t, err)
	require.NoError(t, query.Validate())
}

func TestNewGetUnreadNotificationsQuery_InvalidTarget(t *testing.T) {
	_, err := queries.NewGetUnreadNotificationsQuery(recipient.Ref{})
	require.Error(t, err)
}

func TestGetUnreadNotificationsQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetUnreadNotificationsQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetUnreadNotificationsQueryIsNotConstructed)
}
