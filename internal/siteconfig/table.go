package siteconfig

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// Placeholders understood inside substitution table entries.
const (
	placeholderSite       = "{site}"
	placeholderPhpMyAdmin = "{phpmyadmin_port}"
	placeholderWordPress  = "{wordpress_port}"
)

// Variable names that carry the port pair. The allocator reads these back
// from existing sites' env files.
const (
	VarPhpMyAdminPort = "PHPMYADMIN_PORT"
	VarWordPressPort  = "WORDPRESS_PORT"
)

// substitutionTable maps every template variable to its template string.
// Order is significant: it is the order in which a fresh .env is written.
var substitutionTable = model.Vars{
	{Name: "MYSQL_CONTAINER_NAME", Value: "mysql_{site}"},
	{Name: "MYSQL_DATABASE", Value: "mysqldb"},
	{Name: "MYSQL_USER", Value: "mysqluser"},
	{Name: "MYSQL_PASSWORD", Value: "mysqlpassword"},
	{Name: "MYSQL_ROOT_PASSWORD", Value: "password"},
	{Name: "PHPMYADMIN_CONTAINER_NAME", Value: "phpmyadmin_{site}"},
	{Name: VarPhpMyAdminPort, Value: placeholderPhpMyAdmin},
	{Name: "PMA_HOST", Value: "mysql"},
	{Name: "WORDPRESS_CONTAINER_NAME", Value: "wordpress_{site}"},
	{Name: "WORDPRESS_DB_NAME", Value: "mysqldb"},
	{Name: "WORDPRESS_DB_USER", Value: "mysqluser"},
	{Name: "WORDPRESS_DB_PASSWORD", Value: "mysqlpassword"},
	{Name: "WORDPRESS_DB_HOST", Value: "mysql"},
	{Name: "WORDPRESS_TABLE_PREFIX", Value: "sEi_"},
	{Name: VarWordPressPort, Value: placeholderWordPress},
	{Name: "NETWORK_NAME", Value: "{site}_network"},
}

// SubstitutionTable returns a copy of the substitution table so callers
// cannot mutate the process-wide constant.
func SubstitutionTable() model.Vars {
	table := make(model.Vars, len(substitutionTable))
	copy(table, substitutionTable)
	return table
}

// Resolve instantiates the substitution table for one site: {site},
// {phpmyadmin_port} and {wordpress_port} are replaced in every entry.
//
// An empty site name or a zero port is rejected with ErrInvalidArgument.
// Ports are not range-checked.
func Resolve(siteName string, phpmyadminPort, wordpressPort int) (model.Vars, error) {
	if siteName == "" || phpmyadminPort == 0 || wordpressPort == 0 {
		return nil, fmt.Errorf("%w: site name, phpmyadmin port and wordpress port must be provided", model.ErrInvalidArgument)
	}

	r := strings.NewReplacer(
		placeholderSite, siteName,
		placeholderPhpMyAdmin, strconv.Itoa(phpmyadminPort),
		placeholderWordPress, strconv.Itoa(wordpressPort),
	)

	values := make(model.Vars, 0, len(substitutionTable))
	for _, entry := range substitutionTable {
		values = append(values, model.Var{Name: entry.Name, Value: r.Replace(entry.Value)})
	}
	return values, nil
}

// ResolvePorts is Resolve for a PortPair.
func ResolvePorts(siteName string, ports model.PortPair) (model.Vars, error) {
	return Resolve(siteName, ports.PhpMyAdmin, ports.WordPress)
}

// ResolveAny is the untyped entry point of Resolve, used when values come
// from loosely typed sources (prompts, decoded config).
//
// Presence is checked before type: nil, "" and 0 yield ErrInvalidArgument.
// A site name that is not a string, or a port that is not an integer type,
// yields ErrTypeMismatch.
func ResolveAny(siteName, phpmyadminPort, wordpressPort any) (model.Vars, error) {
	if isFalsy(siteName) || isFalsy(phpmyadminPort) || isFalsy(wordpressPort) {
		return nil, fmt.Errorf("%w: site name, phpmyadmin port and wordpress port must be provided", model.ErrInvalidArgument)
	}

	name, ok := siteName.(string)
	if !ok {
		return nil, fmt.Errorf("%w: site name must be a string, got %T", model.ErrTypeMismatch, siteName)
	}
	pma, ok := asInt(phpmyadminPort)
	if !ok {
		return nil, fmt.Errorf("%w: phpmyadmin port must be an integer, got %T", model.ErrTypeMismatch, phpmyadminPort)
	}
	wp, ok := asInt(wordpressPort)
	if !ok {
		return nil, fmt.Errorf("%w: wordpress port must be an integer, got %T", model.ErrTypeMismatch, wordpressPort)
	}

	return Resolve(name, pma, wp)
}

// isFalsy reports nil and the zero value of any type.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

// asInt accepts every signed and unsigned integer kind.
func asInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	default:
		return 0, false
	}
}
