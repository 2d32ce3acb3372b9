package migrate_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly/storefront-api/pkg/config"
	"github.com/grocerly/storefront-api/pkg/db"
	"github.com/grocerly/storefront-api/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestEmbeddedMigrationsMatchDir(t *testing.T) {
	require.NoError(t, migrate.ValidateDir(""))

	fsys, err := migrate.Source("")
	require.NoError(t, err)
	embedded, err := fs.Glob(fsys, "*.sql")
	require.NoError(t, err)
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	assert.Len(t, embedded, len(onDisk))
}

func TestSourceRejectsMissingDir(t *testing.T) {
	_, err := migrate.Source(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunRequiresDB(t *testing.T) {
	assert.Error(t, migrate.Run(context.Background(), nil, nil, "", "up"))
}

func TestMigrationsCreateStorefrontSchema(t *testing.T) {
	cases := map[string][]string{
		"*_create_catalog_tables.sql": {
			"CREATE TABLE IF NOT EXISTS categories",
			"CONSTRAINT categories_name_key UNIQUE (name)",
			"CREATE TABLE IF NOT EXISTS subcategories",
			"CREATE TABLE IF NOT EXISTS products",
			"price NUMERIC(12,2) NOT NULL",
		},
		"*_create_cart_and_addresses.sql": {
			"CREATE TABLE IF NOT EXISTS cart_items",
			"CONSTRAINT cart_items_user_product_key UNIQUE (user_id, product_id)",
			"CHECK (quantity >= 1)",
			"CREATE TABLE IF NOT EXISTS addresses",
		},
		"*_create_orders_tables.sql": {
			"CREATE TABLE IF NOT EXISTS sequences",
			"CREATE TABLE IF NOT EXISTS orders",
			"CONSTRAINT orders_order_number_key UNIQUE (order_number)",
			"REFERENCES orders(id) ON DELETE CASCADE",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		content := string(data)
		for _, sub := range checks {
			assert.True(t, strings.Contains(content, sub), "%s missing %q", pattern, sub)
		}
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Order Notes!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_order_notes.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestAutoMigrateModelsOnSQLite(t *testing.T) {
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file:automigrate?mode=memory&cache=shared",
		Driver: db.DriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, migrate.AutoMigrateModels(client))
	for _, table := range []string{"categories", "subcategories", "products", "cart_items", "addresses", "orders", "order_items", "sequences"} {
		assert.True(t, client.DB().Migrator().HasTable(table), table)
	}
}
