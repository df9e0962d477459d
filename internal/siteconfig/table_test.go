package siteconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// TestResolve_ValidInput verifies that every table entry is instantiated for
// the site and port pair, in table order, with no placeholder left.
func TestResolve_ValidInput(t *testing.T) {
	values, err := Resolve("testsite", 8080, 80)
	require.NoError(t, err)

	assert.Equal(t, SubstitutionTable().Names(), values.Names(),
		"every table key must be present, in table order")

	expected := map[string]string{
		"MYSQL_CONTAINER_NAME":      "mysql_testsite",
		"MYSQL_DATABASE":            "mysqldb",
		"MYSQL_USER":                "mysqluser",
		"MYSQL_PASSWORD":            "mysqlpassword",
		"MYSQL_ROOT_PASSWORD":       "password",
		"PHPMYADMIN_CONTAINER_NAME": "phpmyadmin_testsite",
		"PHPMYADMIN_PORT":           "8080",
		"PMA_HOST":                  "mysql",
		"WORDPRESS_CONTAINER_NAME":  "wordpress_testsite",
		"WORDPRESS_DB_NAME":         "mysqldb",
		"WORDPRESS_DB_USER":         "mysqluser",
		"WORDPRESS_DB_PASSWORD":     "mysqlpassword",
		"WORDPRESS_DB_HOST":         "mysql",
		"WORDPRESS_TABLE_PREFIX":    "sEi_",
		"WORDPRESS_PORT":            "80",
		"NETWORK_NAME":              "testsite_network",
	}
	assert.Equal(t, expected, values.Map())

	for _, v := range values {
		assert.NotContains(t, v.Value, "{", "unresolved placeholder in %s", v.Name)
		assert.NotContains(t, v.Value, "}", "unresolved placeholder in %s", v.Name)
	}
}

// TestResolve_MissingValues verifies that empty/zero inputs are rejected.
func TestResolve_MissingValues(t *testing.T) {
	tests := []struct {
		name string
		site string
		pma  int
		wp   int
	}{
		{name: "empty site", site: "", pma: 8080, wp: 80},
		{name: "zero phpmyadmin port", site: "s", pma: 0, wp: 80},
		{name: "zero wordpress port", site: "s", pma: 8080, wp: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.site, tt.pma, tt.wp)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}
}

// TestResolveAny covers the presence-before-type ordering of checks.
func TestResolveAny(t *testing.T) {
	tests := []struct {
		name    string
		site    any
		pma     any
		wp      any
		wantErr error
	}{
		{name: "valid ints", site: "s", pma: 8080, wp: 80},
		{name: "valid unsigned", site: "s", pma: uint16(9000), wp: int64(8000)},
		{name: "empty site", site: "", pma: 8080, wp: 80, wantErr: model.ErrInvalidArgument},
		{name: "nil port", site: "s", pma: nil, wp: 80, wantErr: model.ErrInvalidArgument},
		{name: "empty string port", site: "s", pma: "", wp: 80, wantErr: model.ErrInvalidArgument},
		{name: "string port", site: "s", pma: "x", wp: 80, wantErr: model.ErrTypeMismatch},
		{name: "float port", site: "s", pma: 8080, wp: 80.5, wantErr: model.ErrTypeMismatch},
		{name: "non-string site", site: 42, pma: 8080, wp: 80, wantErr: model.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ResolveAny(tt.site, tt.pma, tt.wp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, values, len(SubstitutionTable()))
		})
	}
}

// TestSubstitutionTable_IsCopy verifies callers cannot mutate the table.
func TestSubstitutionTable_IsCopy(t *testing.T) {
	table := SubstitutionTable()
	table[0].Value = "mutated"

	again := SubstitutionTable()
	assert.Equal(t, "mysql_{site}", again[0].Value)
	assert.Len(t, again, 16)
	assert.True(t, strings.HasPrefix(again[len(again)-1].Value, "{site}"))
}

func TestResolvePorts(t *testing.T) {
	values, err := ResolvePorts("blog", model.PortPair{WordPress: 8001, PhpMyAdmin: 9001})
	require.NoError(t, err)

	wp, _ := values.Get(VarWordPressPort)
	pma, _ := values.Get(VarPhpMyAdminPort)
	assert.Equal(t, "8001", wp)
	assert.Equal(t, "9001", pma)
}
