package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/importlog"
)

func TestBuildCountAttemptsQueryExcludesUnpublishedReports(t *testing.T) {
	query, args, err := buildCountAttemptsQuery([]string{"m1", "m2"})
	require.NoError(t, err)

	require.Equal(t,
		"SELECT matchday_id, COUNT(*) AS attempt_count FROM import_attempts "+
			"WHERE matchday_id IN ($1, $2) AND error_code <> $3 GROUP BY matchday_id",
		query,
	)
	require.Equal(t, []any{"m1", "m2", importlog.ErrorCodeNoResult}, args)
}
