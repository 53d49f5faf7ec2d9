package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/omerfaruksaribal/ShopKit/pkg/config"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/payment"
)

type ServiceConfig struct {
	config.Config

	OrderEventsTopic string

	PaymentSuccessRate float64
	// PaymentForce pins every charge to one outcome when set.
	PaymentForce *bool
}

func Load(envFiles ...string) ServiceConfig {
	cfg, err := fromEnv(config.Load(envFiles...))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	config.MustOneOf(cfg.DatabaseDriver, "DATABASE_DRIVER", "postgres", "sqlite")
	if cfg.DatabaseDriver == "postgres" {
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}

func fromEnv(base config.Config) (ServiceConfig, error) {
	if base.ServiceName == "" {
		base.ServiceName = "order"
	}

	cfg := ServiceConfig{
		Config:             base,
		OrderEventsTopic:   config.EnvDefault("ORDER_EVENTS_TOPIC", "order-events"),
		PaymentSuccessRate: config.EnvFloatDefault("PAYMENT_SUCCESS_RATE", payment.DefaultSuccessRate),
	}

	if cfg.PaymentSuccessRate < 0 || cfg.PaymentSuccessRate > 1 {
		return ServiceConfig{}, fmt.Errorf("PAYMENT_SUCCESS_RATE must be within [0, 1], got %v", cfg.PaymentSuccessRate)
	}

	force, err := parseOutcome(os.Getenv("PAYMENT_FORCE_OUTCOME"))
	if err != nil {
		return ServiceConfig{}, err
	}
	cfg.PaymentForce = force

	return cfg, nil
}

func parseOutcome(v string) (*bool, error) {
	var outcome bool
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return nil, nil
	case "success", "true":
		outcome = true
	case "failure", "false":
		outcome = false
	default:
		return nil, fmt.Errorf("PAYMENT_FORCE_OUTCOME must be success or failure, got %q", v)
	}
	return &outcome, nil
}
