package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-ledger-service/internal/config"
	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	publisher "github.com/LavaJover/shvark-ledger-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-ledger-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config         *config.LedgerConfig
	DB             *gorm.DB
	EventPublisher *publisher.KafkaPublisher
	Metrics        *metrics.LedgerMetrics
	Repositories   *Repositories
}

type Repositories struct {
	LedgerRepo     domain.LedgerRepository
	WithdrawalRepo domain.WithdrawalRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	eventPublisher, err := initEventPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}

	repos := &Repositories{
		LedgerRepo:     repository.NewDefaultLedgerRepository(db),
		WithdrawalRepo: repository.NewDefaultWithdrawalRepository(db),
	}

	return &Dependencies{
		Config:         cfg,
		DB:             db,
		EventPublisher: eventPublisher,
		Metrics:        metrics.NewLedgerMetrics(),
		Repositories:   repos,
	}, nil
}

func initEventPublisher(cfg *config.LedgerConfig) (*publisher.KafkaPublisher, error) {
	config := publisher.KafkaConfig{
		Brokers:    []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Username:   cfg.KafkaService.Username,
		Password:   cfg.KafkaService.Password,
		Mechanism:  cfg.KafkaService.Mechanism,
		TLSEnabled: cfg.KafkaService.TLSEnabled,
	}
	return publisher.NewKafkaPublisher(config)
}
