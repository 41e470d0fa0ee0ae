package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN            string `env:"DSN,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	JWT struct {
		AccessSecret      string `env:"ACCESS_SECRET,required"`
		AccessExpiration  int    `env:"ACCESS_EXPIRATION" envDefault:"900"` // 15 minutes
		RefreshSecret     string `env:"REFRESH_SECRET,required"`
		RefreshExpiration int    `env:"REFRESH_EXPIRATION" envDefault:"604800"` // 7 days
	} `envPrefix:"JWT_"`
	InitialAdmin struct {
		EmployeeID string `env:"EMPLOYEE_ID" envDefault:"ADMIN001"`
		Email      string `env:"EMAIL,required"`
		Password   string `env:"PASSWORD,required"`
		FirstName  string `env:"FIRST_NAME" envDefault:"System"`
		LastName   string `env:"LAST_NAME" envDefault:"Administrator"`
	} `envPrefix:"INITIAL_ADMIN_"`
	Attendance struct {
		LateAfter         string  `env:"LATE_AFTER" envDefault:"09:30"`
		HalfDayBelowHours float64 `env:"HALF_DAY_BELOW_HOURS" envDefault:"4"`
	} `envPrefix:"ATTENDANCE_"`
	Leave struct {
		PaidPerYear int `env:"PAID_PER_YEAR" envDefault:"20"`
		SickPerYear int `env:"SICK_PER_YEAR" envDefault:"10"`
	} `envPrefix:"LEAVE_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"Password123"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only return the first error to keep the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
