// cmd/payment-service/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"paygate/internal/pkg/config"
	"paygate/internal/pkg/httpclient"
	"paygate/internal/pkg/logger"
	"paygate/internal/pkg/mq"
	"paygate/internal/pkg/tracing"
	"paygate/internal/service/payment/application"
	"paygate/internal/service/payment/domain"
	"paygate/internal/service/payment/infrastructure"
	"paygate/internal/service/payment/infrastructure/adapter"
	"paygate/internal/service/payment/interfaces"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName        = "payment-service"
	paymentEventsTopic = "payment-events"
)

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	cfgPath := os.Getenv("PAYGATE_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(serviceName, cfg.Server.LogLevel)

	// 1. 初始化核心技术组件
	tp, err := tracing.InitTracerProvider(serviceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	tracer := otel.Tracer(serviceName)
	httpClient := httpclient.NewClient(tracer)

	db, err := infrastructure.OpenDB(cfg.Infra.MysqlDSN)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Infra.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	kafkaWriter := mq.NewKafkaWriter(strings.Split(cfg.Infra.KafkaBrokers, ","), paymentEventsTopic)
	defer kafkaWriter.Close()

	// 2. 把网关设置固化为不可变配置，注入编排器
	gatewayCfg := domain.GatewayConfig{
		SecretKey:       cfg.Gateway.SecretKey,
		PublicKey:       cfg.Gateway.PublicKey,
		PaymentAction:   cfg.Gateway.PaymentAction,
		OrderStatus:     cfg.Gateway.OrderStatus,
		Mode:            cfg.Gateway.Mode,
		VoidToCancelled: cfg.Gateway.VoidToCancelled,
		RequestTimeout:  time.Duration(cfg.Gateway.RequestTimeoutMS) * time.Millisecond,
	}

	// 3. 组装出站适配器与应用服务
	cardRepo := infrastructure.NewGormCardRepository(db)
	vault := application.NewVaultService(cardRepo, tracer)
	processor := adapter.NewCheckoutHTTPAdapter(httpClient, gatewayCfg)
	orders := adapter.NewCommerceHTTPAdapter(httpClient, cfg.Commerce.BaseURL)
	pending := adapter.NewPendingRedisAdapter(redisClient)
	notifier := adapter.NewNotificationKafkaAdapter(kafkaWriter)

	service := application.NewPaymentService(gatewayCfg, tracer, vault, processor, orders, pending, notifier)

	// 4. 注册 HTTP 路由并启动服务
	mux := http.NewServeMux()
	interfaces.NewPaymentHandler(service).RegisterRoutes(mux)

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info().Msgf("%s listening on %s", serviceName, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Logger.Info().Msg("shutting down payment-service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// 按顺序清理 (后进先出)：先停 HTTP，再把缓冲的 trace 发送出去
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error().Err(err).Msg("error shutting down http server")
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error().Err(err).Msg("error shutting down tracer provider")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("payment-service exited with error")
	}
	logger.Logger.Info().Msg("payment-service gracefully shut down")
}
