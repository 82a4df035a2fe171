package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(Config{Driver: DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Skipf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrator_LoadMigrations(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			migrations, err := NewMigrator(nil, driver).LoadMigrations()
			require.NoError(t, err)
			require.Len(t, migrations, 3)

			names := make([]string, 0, len(migrations))
			for i, m := range migrations {
				assert.Equal(t, i+1, m.Version)
				assert.NotEmpty(t, m.SQL)
				names = append(names, m.Name)
			}
			assert.Equal(t, []string{"create_carts_table", "create_tickets_table", "create_discounts_table"}, names)
		})
	}
}

func TestMigrator_RunMigrations(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	status, err := db.GetMigrationStatus(ctx)
	require.NoError(t, err)
	for _, s := range status {
		assert.False(t, s.Applied, "migration %d", s.Version)
	}

	require.NoError(t, db.RunMigrations(ctx))
	// already applied migrations are skipped
	require.NoError(t, db.RunMigrations(ctx))

	status, err = db.GetMigrationStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status, 3)
	for _, s := range status {
		assert.True(t, s.Applied, "migration %d", s.Version)
	}

	for _, table := range []string{"carts", "tickets", "discounts"} {
		var count int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		require.NoError(t, err, table)
		assert.Zero(t, count, table)
	}
}

func TestMigrations_TicketShapeConstraint(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.RunMigrations(ctx))

	_, err := db.ExecContext(ctx, "INSERT INTO carts (id) VALUES (200)")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO tickets (cart_id, event_id, type, price, seat_id, ga_area_id) VALUES (200, 1, 'Adult', 25, 1, NULL)`)
	assert.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO tickets (cart_id, event_id, type, price, seat_id, ga_area_id) VALUES (200, 1, 'Adult', 25, 1, 1)`)
	assert.Error(t, err, "seat and ga area together")

	_, err = db.ExecContext(ctx, `INSERT INTO tickets (cart_id, event_id, type, price, seat_id, ga_area_id) VALUES (999, 1, 'Adult', 25, 1, NULL)`)
	assert.Error(t, err, "unknown cart")
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "sqlite path",
			config: Config{Driver: DriverSQLite, Path: "/tmp/carts.sqlite"},
			want:   "file:/tmp/carts.sqlite?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate",
		},
		{
			name:   "sqlite default path",
			config: Config{Driver: DriverSQLite},
			want:   "file:cart_discounts.sqlite?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate",
		},
		{
			name:   "postgres url",
			config: Config{Driver: DriverPostgres, URL: "postgres://u:p@db:5432/carts?sslmode=disable"},
			want:   "postgres://u:p@db:5432/carts?sslmode=disable",
		},
		{
			name:   "postgres parts",
			config: Config{Host: "localhost", Port: 5432, User: "postgres", Password: "secret", DBName: "cart_discounts", SSLMode: "disable"},
			want:   "host=localhost port=5432 user=postgres password=secret dbname=cart_discounts sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.DSN())
		})
	}
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewConnection(Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
