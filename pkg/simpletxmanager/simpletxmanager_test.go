package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB держит счетчик: сколько ближайших коммитов завершатся
// конфликтом сериализации
type fakeDB struct {
	commitFailures int
}

type fakeConnector struct{ db *fakeDB }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{db: c.db}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open via connector only")
}

type fakeConn struct{ db *fakeDB }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return &fakeTx{db: c.db}, nil }

func (c *fakeConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &fakeTx{db: c.db}, nil
}

type fakeTx struct{ db *fakeDB }

func (t *fakeTx) Commit() error {
	if t.db.commitFailures > 0 {
		t.db.commitFailures--
		return &pq.Error{Code: pqSerializationFailure}
	}
	return nil
}

func (t *fakeTx) Rollback() error { return nil }

func newFakeManager(commitFailures int) (*TransactionManager, *sql.DB) {
	db := sql.OpenDB(&fakeConnector{db: &fakeDB{commitFailures: commitFailures}})
	return NewTransactionManager(db), db
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	m, db := newFakeManager(1)
	defer db.Close()

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoSerializable_GivesUpAfterRetries(t *testing.T) {
	m, db := newFakeManager(maxSerializableRetries + 10)
	defer db.Close()

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pqSerializationFailure, string(pqErr.Code))
	assert.Equal(t, maxSerializableRetries+1, calls)
}

func TestDoSerializable_DoesNotRetryFnError(t *testing.T) {
	m, db := newFakeManager(0)
	defer db.Close()

	errBusiness := errors.New("slot already taken")
	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, calls)
}
