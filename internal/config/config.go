package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTUserSecret string `env:"JWT_USER_SECRET"`

	// RedisAddr адрес Redis для кэша каталога. Пустое значение включает
	// in-memory кэш внутри процесса.
	RedisAddr string `env:"REDIS_ADDR"`

	// SellPercent доля эффективной цены, зачисляемая при продаже предмета.
	SellPercent decimal.Decimal `env:"SHOP_SELL_PERCENT" envDefault:"0.9"`
	// PerPage размер страницы листингов каталога и инвентаря.
	PerPage uint `env:"SHOP_PER_PAGE" envDefault:"10"`
	// ModeratorGroups группы с модераторскими правами в магазине.
	ModeratorGroups []int64 `env:"SHOP_MODERATOR_GROUPS" envSeparator:","`
	// QuickEditRefund возвращать ли стоимость при модераторском удалении записи инвентаря.
	QuickEditRefund bool `env:"SHOP_QUICK_EDIT_REFUND" envDefault:"true"`
	// QuickEditRestock возвращать ли экземпляр на склад при модераторском удалении.
	QuickEditRestock bool `env:"SHOP_QUICK_EDIT_RESTOCK" envDefault:"true"`

	// PMEndpoint базовый URL API личных сообщений хост-системы. Пустое
	// значение отключает уведомления.
	PMEndpoint string `env:"PM_ENDPOINT"`
	// PMAdminIDs получатели административных уведомлений о покупках.
	PMAdminIDs []int64 `env:"PM_ADMIN_IDS" envSeparator:","`
	// PMBuyerTemplate шаблон сообщения покупателю, поддерживает плейсхолдеры
	// {itemname} и {itemid}. Пустой шаблон отключает сообщение, если у
	// предмета нет своего.
	PMBuyerTemplate string `env:"PM_BUYER_TEMPLATE"`
	PMAdminTemplate string `env:"PM_ADMIN_TEMPLATE"`
}

func LoadConfig() (*Config, error) {
	// .env файл опционален, в продакшене настройки приходят из окружения.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	merged := *envConfig
	merged.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	merged.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	merged.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	return &merged
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
