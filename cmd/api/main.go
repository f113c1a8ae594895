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

	_ "github.com/jhoicas/sri-facturacion/docs"
	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	infrapdf "github.com/jhoicas/sri-facturacion/internal/infrastructure/pdf"
	"github.com/jhoicas/sri-facturacion/internal/infrastructure/postgres"
	infrasri "github.com/jhoicas/sri-facturacion/internal/infrastructure/sri"
	"github.com/jhoicas/sri-facturacion/internal/infrastructure/sri/signer"
	httpRouter "github.com/jhoicas/sri-facturacion/internal/interfaces/http"
	"github.com/jhoicas/sri-facturacion/pkg/config"
	"github.com/jhoicas/sri-facturacion/pkg/logger"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// @title        SRI Facturación API
// @version      1.0
// @description  Emisión de comprobantes electrónicos del SRI (Ecuador): clave de acceso, XML factura V1.1.0, firma XAdES-BES, recepción, autorización y RIDE.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ambiente_sri", cfg.SRI.Environment).
		Bool("envio_sri", cfg.SRI.Submit).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	comprobanteRepo := postgres.NewComprobanteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	xmlBuilder := infrasri.NewXMLBuilderService()
	signerSvc := signer.NewXAdESSigner(signer.IssuerSerialEmbedder{})

	// Cliente SOAP SRI: solo si SRI_SUBMIT=true. En modo desarrollo se firma y guarda sin enviar.
	var submitter catalog.Submitter
	if cfg.SRI.Submit {
		soapClient, err := infrasri.NewSOAPClient(cfg.SRI.Environment, cfg.SRI.Timeout())
		if err != nil {
			log.Fatal().Err(err).Msg("cliente SOAP SRI")
		}
		submitter = soapClient
	}

	emissionSvc := emission.NewService(
		txRunner, comprobanteRepo, xmlBuilder, signerSvc, submitter,
		signer.LoadCertificate, log,
		emission.Config{
			Environment:  cfg.SRI.Environment,
			CertPath:     cfg.SRI.CertPath,
			CertPassword: cfg.SRI.CertPassword,
			Submit:       cfg.SRI.Submit,
			Timeout:      cfg.SRI.Timeout(),
		},
	)

	// RIDE: representación impresa del comprobante autorizado
	rideGenerator := infrapdf.NewMarotoRIDEGenerator(cfg.SRI.LogoPath)
	rideUC := emission.NewRIDEUseCase(comprobanteRepo, rideGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.SRI.Timeout() + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SRI Facturación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Comprobantes: emissionSvc,
		RIDE:         rideUC,
		JWTSecret:    cfg.JWT.Secret,
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
