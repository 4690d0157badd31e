package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/LilVoxy/sales_dwh/ETL/load"
)

// DSN формирует строку подключения для выбранного драйвера
func (c DatabaseConfig) DSN() (string, error) {
	switch c.Driver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	case "sqlite":
		return "file:" + c.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
}

// ConnectDatabase открывает и проверяет подключение к хранилищу
func ConnectDatabase(ctx context.Context, c DatabaseConfig) (*sql.DB, load.Dialect, error) {
	dialect, err := load.ParseDialect(c.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn, err := c.DSN()
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(c.Driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Настройка параметров подключения
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("не удалось установить соединение с базой данных: %w", err)
	}

	return db, dialect, nil
}
