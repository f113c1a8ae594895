package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// DateLayout formato de fecha_emision en el cuerpo JSON.
const DateLayout = "2006-01-02"

// EmitterRequest datos del emisor (infoTributaria).
type EmitterRequest struct {
	BusinessName         string `json:"razon_social" validate:"required,max=300"`
	TradeName            string `json:"nombre_comercial,omitempty" validate:"omitempty,min=3,max=300"`
	RUC                  string `json:"ruc" validate:"required,len=13,numeric"`
	MatrixAddress        string `json:"dir_matriz" validate:"required,max=300"`
	EstablishmentAddress string `json:"dir_establecimiento" validate:"omitempty,max=300"`
	SpecialTaxpayer      string `json:"contribuyente_especial,omitempty" validate:"omitempty,max=13"`
	KeepsAccounting      string `json:"obligado_contabilidad" validate:"required,oneof=SI NO"`
	Phone                string `json:"telefono,omitempty"`
}

// CustomerRequest comprador.
type CustomerRequest struct {
	Name               string `json:"razon_social" validate:"required,max=300"`
	Identification     string `json:"identificacion" validate:"required,max=20"`
	IdentificationType string `json:"tipo_identificacion" validate:"required,oneof=04 05 06 07 08"`
	Address            string `json:"direccion" validate:"omitempty,max=300"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string `json:"telefono,omitempty"`
}

// TaxRequest impuesto de una línea.
type TaxRequest struct {
	Code               string          `json:"codigo" validate:"required,oneof=2 3 5"`
	PercentageCode     string          `json:"codigo_porcentaje" validate:"required"`
	Rate               string          `json:"tarifa,omitempty"`
	Base               decimal.Decimal `json:"base_imponible"`
	Value              decimal.Decimal `json:"valor"`
	AdditionalDiscount decimal.Decimal `json:"descuento_adicional"`
}

// LineItemRequest línea de detalle.
type LineItemRequest struct {
	Code                 string          `json:"codigo_principal" validate:"required,max=25"`
	AuxCode              string          `json:"codigo_auxiliar,omitempty" validate:"omitempty,max=25"`
	Description          string          `json:"descripcion" validate:"required,max=300"`
	Quantity             decimal.Decimal `json:"cantidad"`
	UnitPrice            decimal.Decimal `json:"precio_unitario"`
	Discount             decimal.Decimal `json:"descuento"`
	PriceTotalWithoutTax decimal.Decimal `json:"precio_total_sin_impuesto"`
	Taxes                []TaxRequest    `json:"impuestos" validate:"required,min=1,dive"`
}

// PaymentRequest forma de pago.
type PaymentRequest struct {
	Method   string          `json:"forma_pago" validate:"required,len=2"`
	Total    decimal.Decimal `json:"total"`
	Term     int             `json:"plazo" validate:"min=0"`
	TimeUnit string          `json:"unidad_tiempo"`
}

// EmitComprobanteRequest body para POST /api/comprobantes.
// Secuencial y código numérico son opcionales: si van vacíos se asignan al emitir.
type EmitComprobanteRequest struct {
	Environment   string            `json:"ambiente" validate:"omitempty,oneof=1 2"`
	DocumentType  string            `json:"tipo_comprobante" validate:"omitempty,len=2"`
	Emitter       EmitterRequest    `json:"emisor" validate:"required"`
	Establishment string            `json:"establecimiento" validate:"required,len=3,numeric"`
	EmissionPoint string            `json:"punto_emision" validate:"required,len=3,numeric"`
	EmissionDate  string            `json:"fecha_emision,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Sequential    string            `json:"secuencial,omitempty" validate:"omitempty,len=9,numeric"`
	NumericCode   string            `json:"codigo_numerico,omitempty" validate:"omitempty,len=8,numeric"`
	Customer      CustomerRequest   `json:"comprador" validate:"required"`
	Items         []LineItemRequest `json:"detalles" validate:"required,min=1,dive"`
	Payments      []PaymentRequest  `json:"pagos" validate:"omitempty,dive"`
	Tip           decimal.Decimal   `json:"propina"`
}

// Validate valida las etiquetas del cuerpo.
func (r *EmitComprobanteRequest) Validate() error {
	return validator.New().Struct(r)
}

// ToDocument convierte el cuerpo en el documento de dominio.
func (r *EmitComprobanteRequest) ToDocument() (entity.Document, error) {
	var date time.Time
	if r.EmissionDate != "" {
		d, err := time.Parse(DateLayout, r.EmissionDate)
		if err != nil {
			return entity.Document{}, fmt.Errorf("fecha_emision: %w", err)
		}
		date = d
	}
	return entity.Document{
		Environment:   r.Environment,
		DocumentType:  r.DocumentType,
		Emitter:       entity.Emitter(r.Emitter),
		Establishment: r.Establishment,
		EmissionPoint: r.EmissionPoint,
		EmissionDate:  date,
		Sequential:    r.Sequential,
		NumericCode:   r.NumericCode,
		Customer:      entity.Customer(r.Customer),
		Items: lo.Map(r.Items, func(it LineItemRequest, _ int) entity.LineItem {
			return entity.LineItem{
				Code:                 it.Code,
				AuxCode:              it.AuxCode,
				Description:          it.Description,
				Quantity:             it.Quantity,
				UnitPrice:            it.UnitPrice,
				Discount:             it.Discount,
				PriceTotalWithoutTax: it.PriceTotalWithoutTax,
				Taxes: lo.Map(it.Taxes, func(t TaxRequest, _ int) entity.TaxItem {
					return entity.TaxItem(t)
				}),
			}
		}),
		Payments: lo.Map(r.Payments, func(p PaymentRequest, _ int) entity.PaymentItem {
			return entity.PaymentItem(p)
		}),
		Tip: r.Tip,
	}, nil
}

// MessageResponse mensaje devuelto por el SRI.
type MessageResponse struct {
	Identifier     string `json:"identificador"`
	Message        string `json:"mensaje"`
	AdditionalInfo string `json:"informacion_adicional,omitempty"`
	Type           string `json:"tipo"`
}

// NewMessages convierte los mensajes del SRI al formato de respuesta.
func NewMessages(msgs []catalog.Message) []MessageResponse {
	return lo.Map(msgs, func(m catalog.Message, _ int) MessageResponse {
		return MessageResponse(m)
	})
}

// EmitComprobanteResponse respuesta de POST /api/comprobantes.
type EmitComprobanteResponse struct {
	AccessKey string            `json:"clave_acceso"`
	Status    string            `json:"estado"`
	Messages  []MessageResponse `json:"mensajes,omitempty"`
}

// ComprobanteResponse comprobante persistido para GET /api/comprobantes/:accessKey.
type ComprobanteResponse struct {
	ID                  string            `json:"id"`
	AccessKey           string            `json:"clave_acceso"`
	DocumentType        string            `json:"tipo_comprobante"`
	Environment         string            `json:"ambiente"`
	EmitterRUC          string            `json:"ruc_emisor"`
	Number              string            `json:"numero"`
	EmissionDate        string            `json:"fecha_emision"`
	CustomerID          string            `json:"identificacion_comprador"`
	Total               decimal.Decimal   `json:"importe_total"`
	Status              string            `json:"estado"`
	ShortStatus         string            `json:"estado_corto,omitempty"`
	AuthorizationNumber string            `json:"numero_autorizacion,omitempty"`
	AuthorizedAt        *time.Time        `json:"fecha_autorizacion,omitempty"`
	Messages            []MessageResponse `json:"mensajes,omitempty"`
}
