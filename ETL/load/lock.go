package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const runLockName = "sales_dwh_etl"

// ErrRunInProgress возвращается, если другой запуск уже удерживает блокировку
var ErrRunInProgress = errors.New("запуск ETL уже выполняется")

// RunLock - удерживаемая блокировка единственного запуска
type RunLock interface {
	Release(ctx context.Context) error
}

// AcquireRunLock захватывает блокировку запуска без ожидания.
// MySQL: GET_LOCK на закрепленном соединении (снимается и при обрыве соединения).
// SQLite: строка в etl_run_lock; строка старше staleAfter считается брошенной.
func (l *SQLLoader) AcquireRunLock(ctx context.Context, runID string, staleAfter time.Duration) (RunLock, error) {
	if l.dialect == DialectMySQL {
		return acquireMySQLLock(ctx, l.db)
	}
	return acquireTableLock(ctx, l.db, runID, staleAfter)
}

type mysqlLock struct {
	conn *sql.Conn
}

func acquireMySQLLock(ctx context.Context, db *sql.DB) (*mysqlLock, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении соединения для блокировки: %w", err)
	}

	var acquired sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", runLockName).Scan(&acquired); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка при захвате блокировки: %w", err)
	}
	if !acquired.Valid || acquired.Int64 != 1 {
		conn.Close()
		return nil, ErrRunInProgress
	}

	return &mysqlLock{conn: conn}, nil
}

func (m *mysqlLock) Release(ctx context.Context) error {
	defer m.conn.Close()
	if _, err := m.conn.ExecContext(ctx, "DO RELEASE_LOCK(?)", runLockName); err != nil {
		return fmt.Errorf("ошибка при снятии блокировки: %w", err)
	}
	return nil
}

type tableLock struct {
	db    *sql.DB
	runID string
}

func acquireTableLock(ctx context.Context, db *sql.DB, runID string, staleAfter time.Duration) (*tableLock, error) {
	now := time.Now().UTC()

	if staleAfter > 0 {
		cutoff := now.Add(-staleAfter).Format(lockTimeLayout)
		if _, err := db.ExecContext(ctx, "DELETE FROM etl_run_lock WHERE name = ? AND acquired_at < ?", runLockName, cutoff); err != nil {
			return nil, fmt.Errorf("ошибка при удалении брошенной блокировки: %w", err)
		}
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO etl_run_lock (name, run_id, acquired_at) VALUES (?, ?, ?)",
		runLockName, runID, now.Format(lockTimeLayout),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrRunInProgress
		}
		return nil, fmt.Errorf("ошибка при захвате блокировки: %w", err)
	}

	return &tableLock{db: db, runID: runID}, nil
}

func (t *tableLock) Release(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, "DELETE FROM etl_run_lock WHERE name = ? AND run_id = ?", runLockName, t.runID); err != nil {
		return fmt.Errorf("ошибка при снятии блокировки: %w", err)
	}
	return nil
}

const lockTimeLayout = "2006-01-02 15:04:05.000000"

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
