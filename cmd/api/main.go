package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/ferreteria-stock/internal/application/catalog"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/application/sales"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/notify"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ferreteria-stock/internal/interfaces/http"
	"github.com/jhoicas/ferreteria-stock/pkg/config"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("notifier", cfg.Notifier.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		repos    inventory.TxRepos
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.New()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Store.AutoMigrate {
			if err := postgres.ApplySchema(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.Repos(pool)
	}

	notifier := newNotifier(ctx, cfg.Notifier, log.Named("notify"))
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar notificador")
		}
	}()

	resolver := inventory.NewConversionResolver(repos.Variants, log.Named("conversion"))
	variantUC := inventory.NewVariantUseCase(txRunner, repos.Variants, resolver, log.Named("variants"))
	costTracker := inventory.NewCostBasisTracker(repos.Variants, repos.Batches, repos.Sales)
	fulfillmentUC := sales.NewFulfillmentUseCase(txRunner, resolver, log.Named("fulfillment"))
	reservationUC := sales.NewReservationUseCase(txRunner, repos.Reservations, log.Named("reservations"))
	returns := sales.NewReturnReconciler(txRunner, log.Named("returns"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere docs/swagger.json generado con swag)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ferretería Stock API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:      catalog.NewUseCase(txRunner, repos),
		Variants:     variantUC,
		Costs:        costTracker,
		Fulfillment:  fulfillmentUC,
		Reservations: reservationUC,
		Returns:      returns,
		Notifier:     notifier,
		Log:          log.Named("http"),
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newNotifier construye el anunciador de cambios configurado. Si Redis no responde se arranca igual.
func newNotifier(ctx context.Context, cfg config.NotifierConfig, log *logger.Logger) notify.Notifier {
	switch cfg.Driver {
	case config.NotifierRedis:
		n := notify.NewRedisNotifier(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ChannelPrefix)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := n.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; los eventos se registrarán como fallidos")
		}
		return n
	case config.NotifierKafka:
		return notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, cfg.Kafka.BatchSize, cfg.Kafka.BatchTimeout)
	default:
		return notify.Noop{}
	}
}
