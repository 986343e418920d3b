package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveNestedKey(t *testing.T) {
	tr, err := New(LangVI)
	require.NoError(t, err)

	require.Equal(t, "Tạo đơn vị thành công", tr.T(LangVI, "unit.created"))
	require.Equal(t, "Unit created", tr.T(LangEN, "unit.created"))
	require.Equal(t, "Tạo đơn vị thành công", tr.Default("unit.created"))
}

func TestFallbackToEnglishThenKey(t *testing.T) {
	tr, err := New(LangVI)
	require.NoError(t, err)

	require.Equal(t, "Unit created", tr.T("fr", "unit.created"))
	require.Equal(t, "unit.missing", tr.T(LangVI, "unit.missing"))
}

func TestFormattedMessage(t *testing.T) {
	tr, err := New(LangEN)
	require.NoError(t, err)

	require.Equal(t, "Unit creation failed: name taken", tr.Tf(LangEN, "unit.create_failed", "name taken"))
}

func TestUnknownDefaultFallsBackToVietnamese(t *testing.T) {
	tr, err := New("de")
	require.NoError(t, err)

	require.Equal(t, "Tạo đơn vị thành công", tr.Default("unit.created"))
}
