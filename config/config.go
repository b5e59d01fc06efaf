package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName  string `mapstructure:"APP_NAME"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MySQLDSN  string `mapstructure:"MYSQL_DSN"`
	RedisAddr string `mapstructure:"REDIS_ADDR"`

	// RabbitMQ configuration; leave RABBITMQ_URL empty to log low-stock
	// events instead of publishing them
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	LowStockExchange   string `mapstructure:"LOW_STOCK_EXCHANGE"`
	LowStockRoutingKey string `mapstructure:"LOW_STOCK_ROUTING_KEY"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	TokenLifespanHours int    `mapstructure:"TOKEN_HOUR_LIFESPAN"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", "inventory-ledger")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")

	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("LOW_STOCK_EXCHANGE", "events.inventory")
	viper.SetDefault("LOW_STOCK_ROUTING_KEY", "inventory.low_stock")

	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("TOKEN_HOUR_LIFESPAN", 24)

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	err = viper.Unmarshal(&config)
	return
}
