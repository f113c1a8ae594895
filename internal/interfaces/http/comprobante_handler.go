package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sri-facturacion/internal/application/dto"
	"github.com/jhoicas/sri-facturacion/internal/application/emission"
	"github.com/jhoicas/sri-facturacion/internal/domain"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// ComprobanteService operaciones de emisión que expone la API.
type ComprobanteService interface {
	Emit(ctx context.Context, doc entity.Document) (*emission.EmitResult, error)
	Get(ctx context.Context, accessKey string) (*entity.Comprobante, error)
	Authorize(ctx context.Context, accessKey string) (*entity.Comprobante, error)
}

// RIDEDownloader genera el PDF de un comprobante autorizado.
type RIDEDownloader interface {
	DownloadRIDE(ctx context.Context, accessKey string) ([]byte, string, error)
}

// ComprobanteHandler maneja las peticiones HTTP de comprobantes electrónicos (protegido).
type ComprobanteHandler struct {
	svc  ComprobanteService
	ride RIDEDownloader
}

// NewComprobanteHandler construye el handler.
func NewComprobanteHandler(svc ComprobanteService, ride RIDEDownloader) *ComprobanteHandler {
	return &ComprobanteHandler{svc: svc, ride: ride}
}

// Emit godoc
// @Summary      Emitir factura electrónica
// @Description  Asigna secuencial, genera clave de acceso, XML V1.1.0 y firma XAdES-BES. Si el envío está habilitado la manda a recepción.
// @Tags         comprobantes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.EmitComprobanteRequest  true  "Factura"
// @Success      201   {object}  dto.EmitComprobanteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.EmitComprobanteResponse
// @Router       /api/comprobantes [post]
func (h *ComprobanteHandler) Emit(c *fiber.Ctx) error {
	var in dto.EmitComprobanteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := in.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if !CanEmitFor(c, in.Emitter.RUC) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el token no permite emitir para este RUC"})
	}
	doc, err := in.ToDocument()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	res, err := h.svc.Emit(c.UserContext(), doc)
	if err != nil {
		// El comprobante quedó firmado y guardado; el cliente puede reintentar con la clave.
		if emission.IsTransport(err) && res != nil {
			return c.Status(fiber.StatusBadGateway).JSON(dto.EmitComprobanteResponse{
				AccessKey: res.AccessKey,
				Status:    res.Status,
				Messages:  []dto.MessageResponse{{Message: err.Error(), Type: "ERROR"}},
			})
		}
		return writeError(c, err)
	}

	out := dto.EmitComprobanteResponse{AccessKey: res.AccessKey, Status: res.Status}
	if res.Reception != nil {
		out.Messages = dto.NewMessages(res.Reception.Messages)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByAccessKey godoc
// @Summary      Consultar comprobante
// @Tags         comprobantes
// @Security     Bearer
// @Produce      json
// @Param        accessKey  path      string  true  "Clave de acceso (49 dígitos)"
// @Success      200        {object}  dto.ComprobanteResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{accessKey} [get]
func (h *ComprobanteHandler) GetByAccessKey(c *fiber.Ctx) error {
	comp, err := h.owned(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toComprobanteResponse(comp))
}

// Authorize godoc
// @Summary      Consultar autorización en el SRI
// @Description  Envía a recepción si hace falta y consulta autorizacionComprobante una vez. Un comprobante en proceso se devuelve sin cambios.
// @Tags         comprobantes
// @Security     Bearer
// @Produce      json
// @Param        accessKey  path      string  true  "Clave de acceso (49 dígitos)"
// @Success      200        {object}  dto.ComprobanteResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Failure      502        {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{accessKey}/authorize [post]
func (h *ComprobanteHandler) Authorize(c *fiber.Ctx) error {
	if _, err := h.owned(c); err != nil {
		return writeError(c, err)
	}
	comp, err := h.svc.Authorize(c.UserContext(), c.Params("accessKey"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toComprobanteResponse(comp))
}

// DownloadXML godoc
// @Summary      Descargar XML
// @Description  Devuelve el XML autorizado si existe; si no, el XML firmado.
// @Tags         comprobantes
// @Security     Bearer
// @Produce      application/xml
// @Param        accessKey  path  string  true  "Clave de acceso (49 dígitos)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{accessKey}/xml [get]
func (h *ComprobanteHandler) DownloadXML(c *fiber.Ctx) error {
	comp, err := h.owned(c)
	if err != nil {
		return writeError(c, err)
	}
	body := comp.AuthorizedXML
	if body == "" {
		body = comp.SignedXML
	}
	if body == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el comprobante no tiene XML"})
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+comp.AccessKey+`.xml"`)
	return c.SendString(body)
}

// DownloadRIDE godoc
// @Summary      Descargar RIDE en PDF
// @Description  Genera la representación impresa del comprobante. Solo disponible para comprobantes AUTORIZADO.
// @Tags         comprobantes
// @Security     Bearer
// @Produce      application/pdf
// @Param        accessKey  path  string  true  "Clave de acceso (49 dígitos)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{accessKey}/ride [get]
func (h *ComprobanteHandler) DownloadRIDE(c *fiber.Ctx) error {
	if _, err := h.owned(c); err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.ride.DownloadRIDE(c.UserContext(), c.Params("accessKey"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// owned carga el comprobante del path y verifica que el token pueda verlo.
func (h *ComprobanteHandler) owned(c *fiber.Ctx) (*entity.Comprobante, error) {
	comp, err := h.svc.Get(c.UserContext(), c.Params("accessKey"))
	if err != nil {
		return nil, err
	}
	if !CanEmitFor(c, comp.EmitterRUC) {
		return nil, domain.ErrForbidden
	}
	return comp, nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "comprobante no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al comprobante"})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, catalog.ErrTransport):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SRI_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, catalog.ErrCertificateLoad):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CERTIFICATE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toComprobanteResponse(comp *entity.Comprobante) dto.ComprobanteResponse {
	out := dto.ComprobanteResponse{
		ID:                  comp.ID,
		AccessKey:           comp.AccessKey,
		DocumentType:        comp.DocumentType,
		Environment:         comp.Environment,
		EmitterRUC:          comp.EmitterRUC,
		Number:              comp.Establishment + "-" + comp.EmissionPoint + "-" + comp.Sequential,
		EmissionDate:        comp.EmissionDate.Format(dto.DateLayout),
		CustomerID:          comp.CustomerID,
		Total:               comp.Total,
		Status:              comp.Status,
		AuthorizationNumber: comp.AuthorizationNumber,
		AuthorizedAt:        comp.AuthorizedAt,
		Messages:            dto.NewMessages(emission.DecodeMessages(comp.Messages)),
	}
	if comp.Status == entity.ComprobanteStatusAuthorized || comp.Status == entity.ComprobanteStatusNotAuthorized {
		out.ShortStatus = catalog.ShortStatus(comp.Status)
	}
	return out
}
