package emission

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jhoicas/sri-facturacion/internal/domain"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
	domsri "github.com/jhoicas/sri-facturacion/internal/domain/sri"
	"github.com/jhoicas/sri-facturacion/pkg/logger"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ecuadorTZ Ecuador continental no tiene horario de verano.
var ecuadorTZ = time.FixedZone("ECT", -5*60*60)

// Config parámetros de emisión.
type Config struct {
	Environment  string        // ambiente del cliente SOAP; el documento debe coincidir
	CertPath     string        // .p12 por defecto
	CertPassword string
	Submit       bool          // false = solo firmar y guardar
	Timeout      time.Duration // timeout por llamada SOAP
}

// EmitResult resultado de una emisión.
type EmitResult struct {
	AccessKey   string
	Status      string
	SignedXML   []byte
	Reception   *catalog.ReceptionResult
	Comprobante *entity.Comprobante
}

// Service orquesta el ciclo de emisión del SRI:
//
//	secuencial → validación → clave de acceso → XML → firma XAdES-BES → DB → recepción
//
// y la consulta de autorización posterior. Es síncrono; el reintento de la
// autorización vive en Poller o en el llamador.
type Service struct {
	tx           TxRunner
	comprobantes repository.ComprobanteRepository
	xmlBuilder   XMLBuilder
	signer       catalog.Signer
	submitter    catalog.Submitter // nil si el envío está deshabilitado
	loadCert     CertificateLoader
	log          *logger.Logger
	cfg          Config
	now          func() time.Time
}

// NewService construye el servicio. submitter puede ser nil cuando cfg.Submit es false.
func NewService(
	tx TxRunner,
	comprobantes repository.ComprobanteRepository,
	xmlBuilder XMLBuilder,
	signer catalog.Signer,
	submitter catalog.Submitter,
	loadCert CertificateLoader,
	log *logger.Logger,
	cfg Config,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Service{
		tx:           tx,
		comprobantes: comprobantes,
		xmlBuilder:   xmlBuilder,
		signer:       signer,
		submitter:    submitter,
		loadCert:     loadCert,
		log:          log,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Emit firma y persiste el comprobante y, si el envío está habilitado, lo manda a recepción.
// Un error de transporte deja el comprobante guardado en estado ERROR y se devuelve junto al resultado.
func (s *Service) Emit(ctx context.Context, input entity.Document) (*EmitResult, error) {
	doc := input.Clone()
	if err := s.applyDefaults(doc); err != nil {
		return nil, err
	}
	if doc.Environment != s.cfg.Environment {
		return nil, fmt.Errorf("%w: ambiente %q distinto del configurado %q",
			domain.ErrInvalidInput, doc.Environment, s.cfg.Environment)
	}

	var (
		comp      *entity.Comprobante
		signedXML []byte
	)
	err := s.tx.RunEmission(ctx, func(seqRepo repository.SequenceRepository, compRepo repository.ComprobanteRepository) error {
		if doc.Sequential == "" {
			n, err := seqRepo.Next(ctx, doc.Emitter.RUC, doc.Establishment, doc.EmissionPoint, doc.DocumentType)
			if err != nil {
				return err
			}
			doc.Sequential = fmt.Sprintf("%09d", n)
		}

		valid, err := domsri.NewDocument(*doc)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		accessKey, err := domsri.AccessKey(valid)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		log := s.log.WithAccessKey(accessKey)
		s.warnSoftRules(log, valid)

		xmlBytes, err := s.xmlBuilder.Build(valid, accessKey)
		if err != nil {
			return fmt.Errorf("construir XML: %w", err)
		}

		certPath, certPassword := s.cfg.CertPath, s.cfg.CertPassword
		if valid.CertificatePath != "" {
			certPath, certPassword = valid.CertificatePath, valid.CertificatePassword
		}
		cert, err := s.loadCert(certPath, certPassword)
		if err != nil {
			return err
		}
		signedXML, err = s.signer.Sign(xmlBytes, cert)
		if err != nil {
			return err
		}
		log.Info().Int("bytes", len(signedXML)).Msg("comprobante firmado")

		docJSON, err := json.Marshal(valid)
		if err != nil {
			return fmt.Errorf("serializar documento: %w", err)
		}
		comp = &entity.Comprobante{
			AccessKey:     accessKey,
			DocumentType:  valid.DocumentType,
			Environment:   valid.Environment,
			EmitterRUC:    valid.Emitter.RUC,
			Establishment: valid.Establishment,
			EmissionPoint: valid.EmissionPoint,
			Sequential:    valid.Sequential,
			EmissionDate:  valid.EmissionDate,
			CustomerID:    valid.Customer.Identification,
			Total:         valid.AmountDue(),
			Status:        entity.ComprobanteStatusSigned,
			SignedXML:     string(signedXML),
			Document:      docJSON,
		}
		return compRepo.Create(ctx, comp)
	})
	if err != nil {
		s.log.Error().Err(err).Str("ruc", doc.Emitter.RUC).Str("secuencial", doc.Sequential).Msg("emisión fallida")
		return nil, err
	}

	result := &EmitResult{
		AccessKey:   comp.AccessKey,
		Status:      comp.Status,
		SignedXML:   signedXML,
		Comprobante: comp,
	}
	if !s.cfg.Submit {
		s.log.WithAccessKey(comp.AccessKey).Info().Msg("envío al SRI deshabilitado: comprobante queda FIRMADO")
		return result, nil
	}

	reception, err := s.submit(ctx, comp)
	result.Status = comp.Status
	result.Reception = reception
	return result, err
}

// Submit reenvía a recepción un comprobante FIRMADO o en ERROR.
func (s *Service) Submit(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	comp, err := s.Get(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	if comp.Status != entity.ComprobanteStatusSigned && comp.Status != entity.ComprobanteStatusError {
		return nil, fmt.Errorf("%w: el comprobante está en estado %s", domain.ErrConflict, comp.Status)
	}
	if s.submitter == nil {
		return nil, fmt.Errorf("%w: envío al SRI deshabilitado", domain.ErrConflict)
	}
	if err := s.checkEnvironment(comp); err != nil {
		return nil, err
	}
	_, err = s.submit(ctx, comp)
	return comp, err
}

// submit llama a recepción y persiste el resultado en comp.
func (s *Service) submit(ctx context.Context, comp *entity.Comprobante) (*catalog.ReceptionResult, error) {
	log := s.log.WithAccessKey(comp.AccessKey)
	if s.submitter == nil {
		return nil, fmt.Errorf("%w: envío al SRI deshabilitado", domain.ErrConflict)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	reception, err := s.submitter.SubmitForReception(callCtx, []byte(comp.SignedXML))
	if err != nil {
		comp.Status = entity.ComprobanteStatusError
		comp.Messages = messagesJSON([]catalog.Message{{Message: err.Error(), Type: "ERROR"}})
		s.persist(ctx, log, comp)
		log.Error().Err(err).Msg("recepción fallida")
		return nil, err
	}

	registered := reception.AlreadyRegistered()
	if reception.Accepted || registered {
		comp.Status = entity.ComprobanteStatusReceived
	} else {
		comp.Status = entity.ComprobanteStatusReturned
	}
	comp.Messages = messagesJSON(reception.Messages)
	s.persist(ctx, log, comp)

	switch {
	case reception.Accepted:
		log.Info().Str("estado", reception.Status).Msg("respuesta de recepción")
	case registered:
		log.Warn().Str("estado", reception.Status).Msg("clave de acceso ya registrada en el SRI: queda RECIBIDA")
	default:
		log.Warn().Str("estado", reception.Status).Interface("mensajes", reception.Messages).Msg("comprobante devuelto")
	}
	return reception, nil
}

// Authorize consulta una vez la autorización y actualiza el comprobante.
// Un comprobante FIRMADO o en ERROR se envía primero a recepción; si recepción
// responde que la clave ya está registrada se consulta la autorización igual.
// Si el SRI aún no procesa el comprobante, se devuelve sin cambios.
func (s *Service) Authorize(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	comp, err := s.Get(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	if comp.IsFinal() {
		return comp, nil
	}
	if s.submitter == nil {
		return nil, fmt.Errorf("%w: envío al SRI deshabilitado", domain.ErrConflict)
	}
	if err := s.checkEnvironment(comp); err != nil {
		return nil, err
	}
	if comp.Status == entity.ComprobanteStatusSigned || comp.Status == entity.ComprobanteStatusError {
		if _, err := s.submit(ctx, comp); err != nil {
			return comp, err
		}
		if comp.Status != entity.ComprobanteStatusReceived {
			return comp, nil
		}
	}

	log := s.log.WithAccessKey(accessKey)
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	auth, err := s.submitter.PollAuthorization(callCtx, accessKey)
	if err != nil {
		log.Error().Err(err).Msg("consulta de autorización fallida")
		return comp, err
	}

	switch auth.Status {
	case catalog.AuthorizationApproved:
		comp.Status = entity.ComprobanteStatusAuthorized
		comp.AuthorizedXML = auth.AuthorizedXML
		comp.AuthorizationNumber = auth.AuthorizationNumber
		if !auth.AuthorizationDate.IsZero() {
			at := auth.AuthorizationDate
			comp.AuthorizedAt = &at
		}
	case catalog.AuthorizationRejected:
		comp.Status = entity.ComprobanteStatusNotAuthorized
	default:
		log.Info().Str("estado", catalog.ShortStatus(auth.Status)).Msg("autorización pendiente")
		return comp, nil
	}

	comp.Messages = messagesJSON(auth.Messages)
	if err := s.comprobantes.Update(ctx, comp); err != nil {
		return nil, fmt.Errorf("guardar autorización: %w", err)
	}
	log.Info().
		Str("estado", catalog.ShortStatus(auth.Status)).
		Str("numero_autorizacion", auth.AuthorizationNumber).
		Msg("respuesta de autorización")
	return comp, nil
}

// AuthorizePending consulta la autorización de hasta limit comprobantes RECIBIDA.
// Devuelve cuántos quedaron en estado final; los errores individuales se registran y no detienen el lote.
func (s *Service) AuthorizePending(ctx context.Context, limit int) (int, error) {
	pending, err := s.comprobantes.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("listar pendientes: %w", err)
	}
	done := 0
	for _, p := range pending {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		comp, err := s.Authorize(ctx, p.AccessKey)
		if err != nil {
			s.log.WithAccessKey(p.AccessKey).Warn().Err(err).Msg("pendiente sin resolver")
			continue
		}
		if comp.IsFinal() {
			done++
		}
	}
	return done, nil
}

// Get devuelve el comprobante o domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, accessKey string) (*entity.Comprobante, error) {
	if err := catalog.ValidateAccessKey(accessKey); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	comp, err := s.comprobantes.GetByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, fmt.Errorf("obtener comprobante: %w", err)
	}
	if comp == nil {
		return nil, fmt.Errorf("%w: comprobante %s", domain.ErrNotFound, accessKey)
	}
	return comp, nil
}

// applyDefaults completa ambiente, tipo, emisión, fecha y código numérico si faltan.
func (s *Service) applyDefaults(doc *entity.Document) error {
	if doc.Environment == "" {
		doc.Environment = s.cfg.Environment
	}
	if doc.DocumentType == "" {
		doc.DocumentType = catalog.DocumentTypeInvoice
	}
	if doc.EmissionType == "" {
		doc.EmissionType = catalog.EmissionTypeNormal
	}
	if doc.EmissionDate.IsZero() {
		n := s.now().In(ecuadorTZ)
		doc.EmissionDate = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, ecuadorTZ)
	}
	if doc.NumericCode == "" {
		code, err := randomNumericCode()
		if err != nil {
			return err
		}
		doc.NumericCode = code
	}
	return nil
}

// checkEnvironment el cliente SOAP apunta a los endpoints de un solo ambiente.
func (s *Service) checkEnvironment(comp *entity.Comprobante) error {
	if comp.Environment != s.cfg.Environment {
		return fmt.Errorf("%w: comprobante del ambiente %q, el servicio opera en %q",
			domain.ErrConflict, comp.Environment, s.cfg.Environment)
	}
	return nil
}

// warnSoftRules reglas que el SRI puede rechazar pero que no impiden firmar.
func (s *Service) warnSoftRules(log *logger.Logger, doc *entity.Document) {
	if err := catalog.ValidateBuyerIdentification(doc.Customer.IdentificationType, doc.Customer.Identification); err != nil {
		log.Warn().Err(err).Msg("identificación del comprador no supera la validación local")
	}
	if diff := domsri.PaymentsMismatch(doc); len(doc.Payments) > 0 && !diff.IsZero() {
		log.Warn().Str("diferencia", diff.StringFixed(2)).Msg("la suma de pagos no coincide con el importe total")
	}
}

func (s *Service) persist(ctx context.Context, log *logger.Logger, comp *entity.Comprobante) {
	if err := s.comprobantes.Update(ctx, comp); err != nil {
		log.Error().Err(err).Str("estado", comp.Status).Msg("no se pudo persistir el estado")
	}
}

func messagesJSON(msgs []catalog.Message) string {
	if len(msgs) == 0 {
		return "[]"
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeMessages lee los mensajes guardados del SRI.
func DecodeMessages(raw string) []catalog.Message {
	var out []catalog.Message
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// randomNumericCode código numérico de 8 dígitos con crypto/rand.
func randomNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", fmt.Errorf("generar código numérico: %w", err)
	}
	return fmt.Sprintf("%08d", n.Int64()), nil
}

// IsTransport indica si el error proviene del transporte SOAP.
func IsTransport(err error) bool {
	return errors.Is(err, catalog.ErrTransport)
}
