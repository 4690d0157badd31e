package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/LilVoxy/sales_dwh/ETL/extractors"
)

// Ошибки проверки конфигурации
var (
	ErrUnknownDriver       = errors.New("неизвестный драйвер базы данных")
	ErrMissingSourceDir    = errors.New("не указан каталог исходных файлов")
	ErrMissingDatabasePath = errors.New("не указан файл базы данных SQLite")
	ErrMissingDatabaseName = errors.New("не указано имя базы данных MySQL")
	ErrInvalidBatchSize    = errors.New("размер пакета должен быть положительным")
	ErrInvalidInterval     = errors.New("интервал запуска должен быть положительным")
	ErrMissingExportDir    = errors.New("не указан каталог снимков")
	ErrInvalidBirthdate    = errors.New("некорректная нижняя граница даты рождения")
)

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Хранилище (MySQL или SQLite)
	Database DatabaseConfig `yaml:"database" envPrefix:"DWH_DB_"`

	// Каталог с выгрузками CRM и ERP
	SourceDir string `yaml:"source_dir" env:"DWH_SOURCE_DIR"`

	// Имена файлов относительно SourceDir; пустое значение - стандартное имя
	Sources SourceFiles `yaml:"sources" envPrefix:"DWH_SOURCE_"`

	// Интервал запуска ETL в режиме scheduled
	RunInterval time.Duration `yaml:"run_interval" env:"DWH_RUN_INTERVAL"`

	// Количество строк в одном INSERT
	BatchSize int `yaml:"batch_size" env:"DWH_BATCH_SIZE"`

	// Публиковать ли сырые отношения bronze_*
	LoadRaw bool `yaml:"load_raw" env:"DWH_LOAD_RAW"`

	// Блокировка запуска старше этого значения считается брошенной (только SQLite)
	LockStaleAfter time.Duration `yaml:"lock_stale_after" env:"DWH_LOCK_STALE_AFTER"`

	// Нижняя граница допустимой даты рождения, YYYY-MM-DD
	BirthdateLowerBound string `yaml:"birthdate_lower_bound" env:"DWH_BIRTHDATE_LOWER_BOUND"`

	Export ExportConfig `yaml:"export" envPrefix:"DWH_EXPORT_"`

	// Адрес сервера отчетов
	HTTPAddr string `yaml:"http_addr" env:"DWH_HTTP_ADDR"`

	// Уровень логирования: debug, info, warn, error
	LogLevel string `yaml:"log_level" env:"DWH_LOG_LEVEL"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `yaml:"enable_detailed_logging" env:"DWH_DETAILED_LOGGING"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"DRIVER"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`

	// Файл базы данных для драйвера sqlite
	Path string `yaml:"path" env:"PATH"`

	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

// SourceFiles переопределяет имена исходных файлов
type SourceFiles struct {
	CRMCustomers string `yaml:"crm_customers" env:"CRM_CUSTOMERS"`
	CRMProducts  string `yaml:"crm_products" env:"CRM_PRODUCTS"`
	CRMSales     string `yaml:"crm_sales" env:"CRM_SALES"`
	ERPCustomers string `yaml:"erp_customers" env:"ERP_CUSTOMERS"`
	ERPLocations string `yaml:"erp_locations" env:"ERP_LOCATIONS"`
	ERPCategory  string `yaml:"erp_category" env:"ERP_CATEGORY"`
}

// ExportConfig содержит настройки выгрузки снимков
type ExportConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Dir     string `yaml:"dir" env:"DIR"`
	Keep    int    `yaml:"keep" env:"KEEP"`
}

// Значения конфигурации по умолчанию
var (
	DefaultDatabaseConfig = DatabaseConfig{
		Driver:          "mysql",
		Host:            "localhost",
		Port:            3306,
		User:            "root",
		DBName:          "sales_dwh",
		Path:            "sales_dwh.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}

	DefaultETLConfig = ETLConfig{
		Database:            DefaultDatabaseConfig,
		SourceDir:           "datasets",
		RunInterval:         24 * time.Hour,
		BatchSize:           500,
		LockStaleAfter:      6 * time.Hour,
		BirthdateLowerBound: "1924-01-01",
		Export: ExportConfig{
			Dir:  "snapshots",
			Keep: 5,
		},
		HTTPAddr:              ":8080",
		LogLevel:              "info",
		EnableDetailedLogging: false,
	}
)

// GetConfig возвращает конфигурацию ETL по умолчанию
func GetConfig() ETLConfig {
	return DefaultETLConfig
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл (если path не пуст),
// затем .env и переменные окружения.
func Load(path string) (ETLConfig, error) {
	cfg := GetConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("ошибка разбора файла конфигурации %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("ошибка загрузки .env: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("ошибка разбора переменных окружения: %w", err)
	}

	return cfg, nil
}

// Validate проверяет конфигурацию
func (c ETLConfig) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "mysql":
		if c.Database.DBName == "" {
			errs = append(errs, ErrMissingDatabaseName)
		}
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, ErrMissingDatabasePath)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver))
	}

	if c.SourceDir == "" {
		errs = append(errs, ErrMissingSourceDir)
	}
	if c.BatchSize <= 0 {
		errs = append(errs, ErrInvalidBatchSize)
	}
	if c.RunInterval <= 0 {
		errs = append(errs, ErrInvalidInterval)
	}
	if c.Export.Enabled && c.Export.Dir == "" {
		errs = append(errs, ErrMissingExportDir)
	}
	if _, err := c.BirthdateBound(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// BirthdateBound возвращает нижнюю границу даты рождения; пустое значение - нулевое время
func (c ETLConfig) BirthdateBound() (time.Time, error) {
	if c.BirthdateLowerBound == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, c.BirthdateLowerBound)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBirthdate, c.BirthdateLowerBound)
	}
	return t, nil
}

// SourcePaths возвращает раскладку исходных файлов с учетом переопределений
func (c ETLConfig) SourcePaths() extractors.Sources {
	s := extractors.DefaultSources(c.SourceDir)
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&s.CRMCustomers, c.Sources.CRMCustomers)
	override(&s.CRMProducts, c.Sources.CRMProducts)
	override(&s.CRMSales, c.Sources.CRMSales)
	override(&s.ERPCustomers, c.Sources.ERPCustomers)
	override(&s.ERPLocations, c.Sources.ERPLocations)
	override(&s.ERPCategory, c.Sources.ERPCategory)
	return s
}
