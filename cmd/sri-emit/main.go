// sri-emit emite una factura desde un archivo JSON: firma, guarda, envía a recepción
// y espera la autorización del SRI con reintentos de espera fija.
//
// Uso:
//
//	go run ./cmd/sri-emit -file factura.json [-wait] [-ride factura.pdf] [-encoding windows-1252]
//	go run ./cmd/sri-emit -pending 50
//
// El JSON tiene el mismo formato que el cuerpo de POST /api/comprobantes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/sri-facturacion/internal/application/dto"
	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	infrapdf "github.com/jhoicas/sri-facturacion/internal/infrastructure/pdf"
	"github.com/jhoicas/sri-facturacion/internal/infrastructure/postgres"
	infrasri "github.com/jhoicas/sri-facturacion/internal/infrastructure/sri"
	"github.com/jhoicas/sri-facturacion/internal/infrastructure/sri/signer"
	"github.com/jhoicas/sri-facturacion/pkg/config"
	"github.com/jhoicas/sri-facturacion/pkg/logger"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

func main() {
	var (
		file     = flag.String("file", "", "archivo JSON de la factura")
		encoding = flag.String("encoding", "utf-8", "codificación del archivo: utf-8 | windows-1252 | iso-8859-1")
		wait     = flag.Bool("wait", true, "esperar la autorización (SRI_POLL_ATTEMPTS x SRI_POLL_DELAY_SECONDS)")
		ridePath = flag.String("ride", "", "escribir el RIDE en esta ruta si el comprobante queda AUTORIZADO")
		certPath = flag.String("cert", "", "certificado .p12 (por defecto SRI_CERT_PATH)")
		certPass = flag.String("password", "", "clave del .p12 (por defecto SRI_CERT_PASSWORD)")
		pending  = flag.Int("pending", 0, "en lugar de emitir, consultar la autorización de hasta N comprobantes RECIBIDA")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	comprobanteRepo := postgres.NewComprobanteRepository(pool)

	var submitter catalog.Submitter
	if cfg.SRI.Submit {
		soapClient, err := infrasri.NewSOAPClient(cfg.SRI.Environment, cfg.SRI.Timeout())
		if err != nil {
			log.Fatal().Err(err).Msg("cliente SOAP SRI")
		}
		submitter = soapClient
	}

	svc := emission.NewService(
		postgres.NewTxRunner(pool), comprobanteRepo,
		infrasri.NewXMLBuilderService(), signer.NewXAdESSigner(nil), submitter,
		signer.LoadCertificate, log,
		emission.Config{
			Environment:  cfg.SRI.Environment,
			CertPath:     cfg.SRI.CertPath,
			CertPassword: cfg.SRI.CertPassword,
			Submit:       cfg.SRI.Submit,
			Timeout:      cfg.SRI.Timeout(),
		},
	)

	if *pending > 0 {
		n, err := svc.AuthorizePending(ctx, *pending)
		if err != nil {
			log.Fatal().Err(err).Msg("consultar pendientes")
		}
		log.Info().Int("finalizados", n).Msg("consulta de pendientes terminada")
		return
	}

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	doc, err := readDocument(*file, *encoding)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", *file).Msg("leer factura")
	}
	if *certPath != "" {
		doc.CertificatePath, doc.CertificatePassword = *certPath, *certPass
	}

	res, err := svc.Emit(ctx, doc)
	if err != nil {
		if res != nil {
			printJSON(dto.EmitComprobanteResponse{AccessKey: res.AccessKey, Status: res.Status})
		}
		log.Fatal().Err(err).Msg("emitir comprobante")
	}
	printJSON(dto.EmitComprobanteResponse{AccessKey: res.AccessKey, Status: res.Status})

	if !*wait || submitter == nil || res.Status != entity.ComprobanteStatusReceived {
		return
	}

	poller := emission.NewPoller(svc, cfg.SRI.PollAttempts, cfg.SRI.PollDelay)
	comp, err := poller.Await(ctx, res.AccessKey)
	if err != nil {
		log.Fatal().Err(err).Str("clave_acceso", res.AccessKey).Msg("consultar autorización")
	}
	printJSON(dto.EmitComprobanteResponse{
		AccessKey: comp.AccessKey,
		Status:    comp.Status,
		Messages:  dto.NewMessages(emission.DecodeMessages(comp.Messages)),
	})

	if *ridePath != "" && comp.Status == entity.ComprobanteStatusAuthorized {
		rideUC := emission.NewRIDEUseCase(comprobanteRepo, infrapdf.NewMarotoRIDEGenerator(cfg.SRI.LogoPath))
		pdf, _, err := rideUC.DownloadRIDE(ctx, comp.AccessKey)
		if err != nil {
			log.Fatal().Err(err).Msg("generar RIDE")
		}
		if err := os.WriteFile(*ridePath, pdf, 0o644); err != nil {
			log.Fatal().Err(err).Msg("escribir RIDE")
		}
		log.Info().Str("archivo", *ridePath).Msg("RIDE generado")
	}
}

// readDocument lee el JSON de la factura, lo valida y lo convierte al documento de dominio.
func readDocument(path, encoding string) (entity.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.Document{}, err
	}
	var r io.Reader = bytes.NewReader(raw)
	switch encoding {
	case "", "utf-8", "utf8":
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return entity.Document{}, fmt.Errorf("codificación no soportada: %s", encoding)
	}

	var in dto.EmitComprobanteRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return entity.Document{}, fmt.Errorf("JSON inválido: %w", err)
	}
	if err := in.Validate(); err != nil {
		return entity.Document{}, errors.Join(errors.New("factura inválida"), err)
	}
	return in.ToDocument()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
