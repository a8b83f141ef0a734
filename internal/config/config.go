package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// Политики поведения при сбое чтения из шлюза
// degrade-open — отдаем все кандидатные слоты, риск двойной брони дешевле недоступности записи
// fail-closed — отдаем пустой список, безопасного дефолта нет
const (
	PolicyDegradeOpen = "degrade-open"
	PolicyFailClosed  = "fail-closed"
)

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"UTC"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Supabase struct {
		URL            string        `env:"SUPABASE_URL"`
		AnonKey        string        `env:"SUPABASE_ANON_KEY"`
		ServiceKey     string        `env:"SUPABASE_SERVICE_KEY"`
		RequestTimeout time.Duration `env:"SUPABASE_REQUEST_TIMEOUT" envDefault:"5s"`
	}

	Booking struct {
		SlotIntervalMinutes int    `env:"BOOKING_SLOT_INTERVAL_MINUTES" envDefault:"30"`
		DefaultStartTime    string `env:"BOOKING_DEFAULT_START_TIME" envDefault:"09:00:00"`
		DefaultEndTime      string `env:"BOOKING_DEFAULT_END_TIME" envDefault:"17:00:00"`

		// Сбой чтения часов врача фатален для расчета слотов
		DoctorReadPolicy string `env:"BOOKING_DOCTOR_READ_POLICY" envDefault:"fail-closed"`
		// Сбой чтения занятых времен деградирует до полного набора кандидатов
		BookedReadPolicy string `env:"BOOKING_BOOKED_READ_POLICY" envDefault:"degrade-open"`
	}

	Cache struct {
		Enabled   bool          `env:"CACHE_ENABLED" envDefault:"true"`
		Size      int           `env:"CACHE_SLOTS_SIZE" envDefault:"1000"`
		TTL       time.Duration `env:"CACHE_TTL" envDefault:"90s"`
		SweepSpec string        `env:"CACHE_SWEEP_SPEC" envDefault:"@every 1m"`
	}

	Auth struct {
		SessionRecheckInterval time.Duration `env:"AUTH_SESSION_RECHECK_INTERVAL" envDefault:"5m"`
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"appointment.events"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	if cfg.Booking.SlotIntervalMinutes <= 0 {
		return nil, fmt.Errorf("slot interval must be positive, got %d", cfg.Booking.SlotIntervalMinutes)
	}
	if err := validatePolicy(cfg.Booking.DoctorReadPolicy); err != nil {
		return nil, err
	}
	if err := validatePolicy(cfg.Booking.BookedReadPolicy); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validatePolicy(policy string) error {
	if policy != PolicyDegradeOpen && policy != PolicyFailClosed {
		return fmt.Errorf("unknown read-failure policy %q", policy)
	}
	return nil
}

func (c *Config) SlotInterval() time.Duration {
	return time.Duration(c.Booking.SlotIntervalMinutes) * time.Minute
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
