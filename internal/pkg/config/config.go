// internal/pkg/config/config.go
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config 汇总了 payment-service 的全部外部配置。
// 配置来源：yaml 文件（可选）+ 环境变量覆盖。
type Config struct {
	Server struct {
		Port     int    `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`

	Infra struct {
		MysqlDSN     string `yaml:"mysql_dsn"`
		RedisAddr    string `yaml:"redis_addr"`
		KafkaBrokers string `yaml:"kafka_brokers"`
		Jaeger       struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
	} `yaml:"infra"`

	// Commerce 是电商平台（订单协作方）的接入地址
	Commerce struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"commerce"`

	Gateway Gateway `yaml:"gateway"`
}

// Gateway 对应支付网关的后台设置项。
// 这些值在服务启动时被固化进领域层的 GatewayConfig，运行期不再变化。
type Gateway struct {
	SecretKey string `yaml:"secret_key"`
	// PublicKey 用于校验处理方回调（webhook）的请求来源
	PublicKey        string `yaml:"public_key"`
	PaymentAction    string `yaml:"payment_action"` // authorize | authorize_capture
	OrderStatus      string `yaml:"order_status"`   // on-hold | processing
	Mode             string `yaml:"mode"`           // sandbox | live
	VoidToCancelled  bool   `yaml:"void_to_cancelled"`
	RequestTimeoutMS int    `yaml:"request_timeout_ms"`
}

// Load 读取配置文件（路径为空或文件不存在时跳过），再应用环境变量覆盖。
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.LogLevel = "info"
	cfg.Infra.MysqlDSN = "root:root@tcp(localhost:3306)/paygate?charset=utf8mb4&parseTime=True"
	cfg.Infra.RedisAddr = "localhost:6379"
	cfg.Infra.KafkaBrokers = "localhost:9092"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Commerce.BaseURL = "http://localhost:8090"
	cfg.Gateway.PaymentAction = "authorize"
	cfg.Gateway.OrderStatus = "on-hold"
	cfg.Gateway.Mode = "sandbox"
	cfg.Gateway.RequestTimeoutMS = 10000
	return cfg
}

func applyEnv(cfg *Config) {
	setStr := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setStr("PAYGATE_MYSQL_DSN", &cfg.Infra.MysqlDSN)
	setStr("PAYGATE_REDIS_ADDR", &cfg.Infra.RedisAddr)
	setStr("PAYGATE_KAFKA_BROKERS", &cfg.Infra.KafkaBrokers)
	setStr("PAYGATE_JAEGER_ENDPOINT", &cfg.Infra.Jaeger.Endpoint)
	setStr("PAYGATE_COMMERCE_BASE_URL", &cfg.Commerce.BaseURL)
	setStr("PAYGATE_SECRET_KEY", &cfg.Gateway.SecretKey)
	setStr("PAYGATE_PUBLIC_KEY", &cfg.Gateway.PublicKey)
	setStr("PAYGATE_PAYMENT_ACTION", &cfg.Gateway.PaymentAction)
	setStr("PAYGATE_ORDER_STATUS", &cfg.Gateway.OrderStatus)
	setStr("PAYGATE_MODE", &cfg.Gateway.Mode)
	setStr("PAYGATE_LOG_LEVEL", &cfg.Server.LogLevel)

	if v, ok := os.LookupEnv("PAYGATE_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v, ok := os.LookupEnv("PAYGATE_VOID_TO_CANCELLED"); ok {
		cfg.Gateway.VoidToCancelled = v == "true" || v == "1" || v == "yes"
	}
}
