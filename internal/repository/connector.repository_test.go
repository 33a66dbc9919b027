package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_listConnectorsQuery(t *testing.T) {
	t.Run("anonymous callers only see ownerless connectors", func(t *testing.T) {
		sql, args := listConnectorsQuery(nil).Sql()

		require.Contains(t, sql, "connector.user_id IS NULL")
		require.Empty(t, args)
	})

	t.Run("authenticated callers see their own plus ownerless", func(t *testing.T) {
		userID := uuid.New()
		sql, args := listConnectorsQuery(&userID).Sql()

		require.Contains(t, sql, "connector.user_id = $1")
		require.Contains(t, sql, "connector.user_id IS NULL")
		require.Len(t, args, 1)
	})
}
