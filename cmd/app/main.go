package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	httpadapter "github.com/suchimauz/hospital-booking-service/internal/adapters/in/http"
	"github.com/suchimauz/hospital-booking-service/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/hospital-booking-service/internal/adapters/out/cache"
	"github.com/suchimauz/hospital-booking-service/internal/adapters/out/logger"
	"github.com/suchimauz/hospital-booking-service/internal/adapters/out/supabase"
	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
	"github.com/suchimauz/hospital-booking-service/internal/core/services"
)

func main() {
	// .env опционален, в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	gatewayAdapter := supabase.NewSupabaseAdapter(cfg, mainLogger.WithModule("SupabaseAdapter"))

	var cacheAdapter out.SlotCachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter

		// Периодическое выметание просроченных записей кэша
		sweeper := cron.New()
		if _, err := sweeper.AddFunc(cfg.Cache.SweepSpec, func() {
			adapter.Sweep(context.Background())
		}); err != nil {
			log.Error("app.cache.sweep_schedule_failed", out.LogFields{
				"error": err.Error(),
				"spec":  cfg.Cache.SweepSpec,
			})
			os.Exit(1)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Инициализация сервисов
	bookingService := services.NewBookingService(
		gatewayAdapter,
		cacheAdapter,
		mainLogger,
		cfg,
	)
	accessService := services.NewAccessService(
		gatewayAdapter,
		mainLogger,
		cfg,
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := httpadapter.NewBookingController(
		bookingService,
		accessService,
		cfg,
		mainLogger.WithModule("HttpController"),
	)
	controller.RegisterRoutes(router)

	// Слушатель событий о записях нужен только вместе с кэшем
	if cfg.RabbitMQ.Enabled && cacheAdapter != nil {
		listener, err := rabbitmq.NewAppointmentListener(
			cacheAdapter,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
