package sqlx_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	libsqlx "github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	storage "lifesystem/adapters/sqlx"
	"lifesystem/core"
)

func newMockStore(t *testing.T, driver storage.Driver) (*storage.Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	xdb := storage.NewWithDB(libsqlx.NewDb(db, string(driver)), driver, "lifeSystemData")
	cleanup := func() {
		_ = db.Close()
	}
	return xdb, mock, cleanup
}

func TestSQLMock_Load(t *testing.T) {
	store, mock, cleanup := newMockStore(t, storage.DriverPostgres)
	defer cleanup()

	mock.ExpectQuery(`SELECT data FROM player_state WHERE slot = \$1`).
		WithArgs("lifeSystemData").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`{"level":2}`))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"level":2}`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_LoadNotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t, storage.DriverPostgres)
	defer cleanup()

	mock.ExpectQuery(`SELECT data FROM player_state`).
		WithArgs("lifeSystemData").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_LoadError(t *testing.T) {
	store, mock, cleanup := newMockStore(t, storage.DriverPostgres)
	defer cleanup()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT data FROM player_state`).WillReturnError(boom)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, errors.Is(err, core.ErrNotFound))
}

func TestSQLMock_SavePostgres(t *testing.T) {
	store, mock, cleanup := newMockStore(t, storage.DriverPostgres)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO player_state \(slot, data, updated_at\) VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(slot\) DO UPDATE`).
		WithArgs("lifeSystemData", `{"level":2}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), []byte(`{"level":2}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_SaveMySQL(t *testing.T) {
	store, mock, cleanup := newMockStore(t, storage.DriverMySQL)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO player_state .* ON DUPLICATE KEY UPDATE`).
		WithArgs("lifeSystemData", `{}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), []byte(`{}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_Migrate(t *testing.T) {
	store, mock, cleanup := newMockStore(t, storage.DriverPostgres)
	defer cleanup()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS player_state`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_RoundTrip(t *testing.T) {
	cfg := storage.DefaultConfig(storage.DriverSQLite)
	cfg.DSN = filepath.Join(t.TempDir(), "state.db")

	store, err := storage.New(cfg, "lifeSystemData")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte(`{"level":2}`)))
	require.NoError(t, store.Save(ctx, []byte(`{"level":5}`)))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"level":5}`, string(got))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, storage.DefaultConfig(storage.DriverPostgres).Validate())
	require.Error(t, storage.Config{Driver: "oracle", DSN: "x"}.Validate())
	require.Error(t, storage.Config{Driver: storage.DriverMySQL}.Validate())
}
