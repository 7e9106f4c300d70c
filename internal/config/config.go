package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type LedgerConfig struct {
	Env string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	LedgerDB       `yaml:"ledger_db"`
	LogConfig      `yaml:"log_config"`
	PaymentService `yaml:"payment-service"`
	KafkaService   `yaml:"kafka-service"`
	Funding        `yaml:"funding"`
	Batch          `yaml:"batch"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LedgerDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type PaymentService struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms" env-default:"15000"`
}

type KafkaService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Mechanism  string `yaml:"mechanism"`
	TLSEnabled bool   `yaml:"tls_enabled"`
}

type Funding struct {
	// Потолок одной транзакции пополнения в USD
	MaxTxAmount     float64          `yaml:"max_tx_amount" env-default:"10000"`
	CommissionRates []CommissionRate `yaml:"commission_rates"`
}

type CommissionRate struct {
	Level int     `yaml:"level"`
	Rate  float64 `yaml:"rate"`
}

type Batch struct {
	// Пауза между платежами батча, защита от rate limit внешней сети
	PauseMs int `yaml:"pause_ms" env-default:"1000"`
}

func MustLoad() *LedgerConfig {

	// Processing env config variable and file
	configPath := os.Getenv("LEDGER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("LEDGER_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg LedgerConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	if len(cfg.Funding.CommissionRates) == 0 {
		cfg.Funding.CommissionRates = []CommissionRate{
			{Level: 1, Rate: 0.10},
			{Level: 2, Rate: 0.05},
			{Level: 3, Rate: 0.02},
		}
	}

	return &cfg
}
