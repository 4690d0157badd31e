package load

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

// ClassifyError извлекает код и состояние ошибки драйвера хранилища.
// Для SQLite состоянием служит символическое имя кода.
// Для ошибок, не относящихся к драйверам, возвращает 0 и пустую строку.
func ClassifyError(err error) (code int, state string) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.SQLState[0] == 0 {
			return int(mysqlErr.Number), ""
		}
		return int(mysqlErr.Number), string(mysqlErr.SQLState[:])
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), sqlite.ErrorCodeString[sqliteErr.Code()]
	}

	return 0, ""
}
