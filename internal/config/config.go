// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса календаря
type Config struct {
	Env              string `yaml:"env"`
	HTTPServer       `yaml:"http_server"`
	RedisConnection  `yaml:"redis_connection"`
	RabbitConnection `yaml:"rabbitmq_connection"`
	FeedClient       `yaml:"feed_client"`
	Calendar         `yaml:"calendar"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis,
// где кешируются снимки доступности
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitConnection структура для настройки публикации уведомлений хост-приложению.
// Пустой адрес означает работу без брокера (no-op publisher).
type RabbitConnection struct {
	AddressRabbit string        `yaml:"addressrabbit"`
	Exchange      string        `yaml:"exchange" env-default:"calendar-events"`
	Retries       int           `yaml:"retries" env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// FeedClient структура для настройки клиента фида доступности
type FeedClient struct {
	APIBase     string        `yaml:"api_base"`
	ClientID    string        `yaml:"client_id"`
	UnitID      string        `yaml:"unit_id"`
	Persons     int           `yaml:"persons" env-default:"2"`
	TimeoutFeed time.Duration `yaml:"timeoutfeed" env-default:"10s"`
	CacheTTL    time.Duration `yaml:"cache_ttl" env-default:"24h"`
}

// Calendar бизнес-правила выбора дат и ценообразования
type Calendar struct {
	MinNights       int           `yaml:"min_nights" env-default:"1"`
	MaxNights       int           `yaml:"max_nights" env-default:"30"`
	PricingStrategy string        `yaml:"pricing_strategy" env-default:"fixed"`
	PricePerNight   float64       `yaml:"price_per_night" env-default:"1000"`
	Currency        string        `yaml:"currency" env-default:"CZK"`
	BookingURL      string        `yaml:"booking_url"`
	SessionIdleTTL  time.Duration `yaml:"session_idle_ttl" env-default:"1h"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"RabbitConnection:\n"+
			"  Addr: %s\n"+
			"  Exchange: %s\n"+
			"FeedClient:\n"+
			"  APIBase: %s\n"+
			"  ClientID: %s\n"+
			"  UnitID: %s\n"+
			"  Persons: %d\n"+
			"  CacheTTL: %s\n"+
			"Calendar:\n"+
			"  MinNights: %d\n"+
			"  MaxNights: %d\n"+
			"  PricingStrategy: %s\n"+
			"  PricePerNight: %.2f\n"+
			"  Currency: %s\n"+
			"  BookingURL: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressRabbit,
		c.Exchange,
		c.APIBase,
		c.ClientID,
		c.UnitID,
		c.Persons,
		c.CacheTTL,
		c.MinNights,
		c.MaxNights,
		c.PricingStrategy,
		c.PricePerNight,
		c.Currency,
		c.BookingURL,
	)
}
