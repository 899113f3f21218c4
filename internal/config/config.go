package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	MailTransportSMTP  = "smtp"
	MailTransportQueue = "queue"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"60"` // exports with resumes can be slow
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialHR struct {
		Email    string `env:"EMAIL,required"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"HR"`
	} `envPrefix:"INITIAL_HR_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"12"` // hours
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		Password string `env:"PASSWORD" envDefault:"changeme123"`
	} `envPrefix:"SEED_"`
	Email struct {
		Transport        string `env:"TRANSPORT" envDefault:"smtp"`
		From             string `env:"FROM"`
		OrganizationName string `env:"ORGANIZATION_NAME" envDefault:"Accord Hospitals"`
		SMTP             struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST" envDefault:"smtp.gmail.com"`
			Port        int    `env:"PORT" envDefault:"465"`
			SSL         bool   `env:"SSL" envDefault:"true"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"250"` // milliseconds
	} `envPrefix:"REDIS_"`
	RateLimit struct {
		SubmitLimit  int `env:"SUBMIT_LIMIT" envDefault:"5"`
		SubmitWindow int `env:"SUBMIT_WINDOW" envDefault:"3600"` // seconds
		LoginLimit   int `env:"LOGIN_LIMIT" envDefault:"10"`
		LoginWindow  int `env:"LOGIN_WINDOW" envDefault:"900"`
	} `envPrefix:"RATE_LIMIT_"`
	Upload struct {
		Dir      string `env:"DIR" envDefault:"./static/uploads"`
		MaxBytes int64  `env:"MAX_BYTES" envDefault:"5242880"`
	} `envPrefix:"UPLOAD_"`
}

func LoadConfig() (*Config, error) {
	// a .env file only exists in local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks rules that span more than one variable.
func (c *Config) Validate() error {
	switch c.Email.Transport {
	case MailTransportSMTP:
	case MailTransportQueue:
		if c.RabbitMQ.DSN == "" {
			return errors.New("RABBITMQ_DSN is required when EMAIL_TRANSPORT=queue")
		}
	default:
		return fmt.Errorf("unsupported EMAIL_TRANSPORT %q", c.Email.Transport)
	}

	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}

	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}

	if c.IsProduction() && c.Email.SMTP.Password == "" {
		return errors.New("EMAIL_SMTP_PASSWORD is required in production")
	}

	return nil
}

// Sender is the From address used for outgoing mail.
func (c *Config) Sender() string {
	if c.Email.From != "" {
		return c.Email.From
	}
	return c.Email.SMTP.Username
}
