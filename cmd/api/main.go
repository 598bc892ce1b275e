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
	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/projection"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/stream"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia del ledger: PostgreSQL por defecto, memoria para desarrollo
	// y pruebas locales (STORE_DRIVER=memory).
	var (
		balances repository.BalanceRepository
		catalog  repository.CatalogRepository
		txRunner appledger.TxRunner
	)
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		balances = memory.NewBalanceRepository(store)
		catalog = memory.NewCatalogRepository(demoCatalog()...)
		txRunner = memory.NewTxRunner(store)
		log.Info().Msg("driver en memoria: catálogo demo sembrado")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones del esquema")
		}

		balances = postgres.NewBalanceRepository(pool)
		catalog = postgres.NewCatalogRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Stream de commits hacia Kafka (opcional, STREAM_BROKERS)
	var listener appledger.CommitListener
	var publisher *stream.Publisher
	if cfg.Stream.Enabled() {
		publisher = stream.NewPublisher(cfg.Stream.Brokers, cfg.Stream.Topic, log.Component("stream"))
		listener = publisher
		log.Info().
			Strs("brokers", cfg.Stream.Brokers).
			Str("topic", cfg.Stream.Topic).
			Msg("stream de commits habilitado")
	}

	engine := appledger.NewEngine(txRunner, balances, catalog, listener)
	alerts := projection.NewAlertProjection(balances, catalog)
	valuation := projection.NewValuationProjection(balances, catalog)
	gateway := orders.NewPurchaseOrderGateway(engine)
	suggestions := orders.NewReorderSuggestionUseCase(alerts, catalog)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:      engine,
		Alerts:      alerts,
		Valuation:   valuation,
		Gateway:     gateway,
		Suggestions: suggestions,
		JWTSecret:   cfg.JWT.Secret,
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

	// Drenar el stream antes de salir para no perder commits publicados.
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del stream de commits")
		}
	}

	log.Info().Msg("aplicación detenida")
}

// demoCatalog productos de ejemplo para el driver en memoria. El catálogo real
// vive en la tabla products y lo administra el sistema de productos externo.
func demoCatalog() []*entity.ProductRef {
	return []*entity.ProductRef{
		{
			ProductID:    "11111111-1111-1111-1111-111111111111",
			SKU:          "DEMO-001",
			Name:         "Tornillo hexagonal 3mm",
			ReorderPoint: 50,
			UnitPrice:    decimal.RequireFromString("0.25"),
		},
		{
			ProductID:    "22222222-2222-2222-2222-222222222222",
			SKU:          "DEMO-002",
			Name:         "Tuerca de seguridad 3mm",
			ReorderPoint: 40,
			UnitPrice:    decimal.RequireFromString("0.15"),
		},
		{
			ProductID:    "33333333-3333-3333-3333-333333333333",
			SKU:          "DEMO-003",
			Name:         "Lámina galvanizada 2m",
			ReorderPoint: 10,
			UnitPrice:    decimal.RequireFromString("45.90"),
		},
	}
}
