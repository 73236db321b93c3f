package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Resolve(t *testing.T) {
	table := NewTable()
	tests := []struct {
		path      string
		wantOK    bool
		wantRoute string
		protected bool
		params    map[string]string
	}{
		{"/login", true, RouteLogin, false, nil},
		{"/productos", true, RouteProductList, true, nil},
		{"/productos/", true, RouteProductList, true, nil},
		{"/productos/nuevo", true, RouteProductNew, true, nil},
		{"/productos/editar/42", true, RouteProductEdit, true, map[string]string{"id": "42"}},
		{"productos/editar/7", true, RouteProductEdit, true, map[string]string{"id": "7"}},
		{"/productos/editar/abc", false, "", false, nil},
		{"/productos/editar", false, "", false, nil},
		{"/", false, "", false, nil},
		{"/nope", false, "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := table.Resolve(tt.path)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantRoute, m.Route.Name)
			assert.Equal(t, tt.protected, m.Route.Protected)
			for k, v := range tt.params {
				assert.Equal(t, v, m.Params[k])
			}
		})
	}
}

func TestTable_URL(t *testing.T) {
	table := NewTable()
	u, err := table.URL(RouteProductEdit, "id", "9")
	require.NoError(t, err)
	assert.Equal(t, "/productos/editar/9", u)

	_, err = table.URL("missing")
	require.Error(t, err)
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/", CleanPath(""))
	assert.Equal(t, "/login", CleanPath("login"))
	assert.Equal(t, "/productos", CleanPath("/productos/./"))
}
