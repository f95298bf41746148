package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Ledger    LedgerConfig

	LogVerbose bool `env:"APP_VERBOSE,default=0"`
	LogPretty  bool `env:"APP_PRETTY,default=0"`
}

type ServerConfig struct {
	Listen       string        `env:"RUN_ADDRESS,default=localhost:8088"`
	TimeoutRead  time.Duration `env:"SERVER_TIMEOUT_READ,default=5s"`
	TimeoutWrite time.Duration `env:"SERVER_TIMEOUT_WRITE,default=10s"`
	TimeoutIdle  time.Duration `env:"SERVER_TIMEOUT_IDLE,default=1m"`
}

type DatabaseConfig struct {
	DSN string `env:"DATABASE_URI,required"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD,default="`
	DB       int    `env:"REDIS_DB,default=0"`
	// Channel prefix for notification events.
	NotifyChannel string `env:"NOTIFY_CHANNEL,default=vendorpay.notify"`
}

type SchedulerConfig struct {
	// SweepInterval between auto-reject scans.
	SweepInterval time.Duration `env:"AUTOREJECT_INTERVAL,default=60s"`
	// ResponseWindow a vendor has to accept or decline an assignment.
	ResponseWindow time.Duration `env:"RESPONSE_WINDOW,default=15m"`
}

type LedgerConfig struct {
	RejectionPenalty    float64 `env:"PENALTY_REJECTION,default=100"`
	CancellationPenalty float64 `env:"PENALTY_CANCELLATION,default=100"`
	AutoRejectPenalty   float64 `env:"PENALTY_AUTO_REJECT,default=100"`
	AcceptanceFee       float64 `env:"TASK_ACCEPTANCE_FEE,default=0"`
	SecurityDeposit     float64 `env:"SECURITY_DEPOSIT,default=0"`

	LowValueThreshold float64 `env:"EARNING_LOW_THRESHOLD,default=500"`
	OnlineDeduction   float64 `env:"EARNING_ONLINE_DEDUCTION,default=20"`
	PlatformShare     float64 `env:"EARNING_PLATFORM_SHARE,default=0.5"`
	GSTRate           float64 `env:"EARNING_GST_RATE,default=0.18"`
}

func (c LedgerConfig) RejectionPenaltyAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.RejectionPenalty)
}

func (c LedgerConfig) CancellationPenaltyAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.CancellationPenalty)
}

func (c LedgerConfig) AutoRejectPenaltyAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.AutoRejectPenalty)
}

func (c LedgerConfig) AcceptanceFeeAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.AcceptanceFee)
}

func (c LedgerConfig) SecurityDepositAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.SecurityDeposit)
}

// New config constructor
func New() Config {
	return Config{}
}

// Load config from environment and from .env file (if exists) and from flags
func (cfg *Config) Load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(".env load: %w", err)
	}

	if err := envdecode.StrictDecode(cfg); err != nil {
		return fmt.Errorf("env decode: %w", err)
	}

	pflag.StringVarP(&cfg.Server.Listen, "listen-addr", "a", cfg.Server.Listen, "Server address to listen on")
	pflag.StringVarP(&cfg.Database.DSN, "database-uri", "d", cfg.Database.DSN, "Database URI")
	pflag.StringVarP(&cfg.Redis.Addr, "redis-addr", "r", cfg.Redis.Addr, "Redis address for notification dispatch")
	pflag.DurationVarP(&cfg.Scheduler.SweepInterval, "sweep-interval", "i", cfg.Scheduler.SweepInterval, "Auto-reject sweep interval")
	pflag.BoolVarP(&cfg.LogVerbose, "verbose", "v", cfg.LogVerbose, "Verbose output")
	pflag.BoolVarP(&cfg.LogPretty, "pretty", "p", cfg.LogPretty, "Pretty output")
	pflag.Parse()

	return nil
}
