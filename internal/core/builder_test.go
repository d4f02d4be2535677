package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild_WithAllClauses(t *testing.T) {
	sql, args := Select("equipamento", "SUM(massa) AS massa").
		From("fato_producao").
		Where("data_hora >= ?", "2026-08-01").
		Where("material = ?", "MINERIO").
		GroupBy("equipamento").
		OrderBy("massa DESC").
		Build()

	require.Equal(t,
		"SELECT equipamento, SUM(massa) AS massa FROM fato_producao "+
			"WHERE data_hora >= ? AND material = ? GROUP BY equipamento ORDER BY massa DESC",
		sql,
	)
	require.Equal(t, []interface{}{"2026-08-01", "MINERIO"}, args)
}

func TestBuild_Defaults(t *testing.T) {
	sql, args := Select().From("equipamentos").Build()
	require.Equal(t, "SELECT * FROM equipamentos", sql)
	require.Empty(t, args)
}

func TestBuild_Top(t *testing.T) {
	sql, _ := Select("id").From("t").Top(10).Build()
	require.Equal(t, "SELECT TOP 10 id FROM t", sql)
}
