// Package entitytest provee documentos de ejemplo para pruebas.
package entitytest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/pkg/sri"
)

// Valores esperados de la factura de ejemplo.
const (
	InvoiceAccessKey       = "1503202401010006750000110010010000000050000000112"
	InvoiceTotalWithoutTax = "205.00"
	InvoiceTotalTax        = "7.95"
	InvoiceGrandTotal      = "212.95"
)

// Invoice factura de cinco líneas, una por cada tramo reportado:
// 100 (0%), 22.50 (12%, IVA 2.70), 37.50 (14%, IVA 5.25), 15 (no objeto) y 30 (exento).
func Invoice() entity.Document {
	d := decimal.RequireFromString
	line := func(code, desc, base, pct, value string) entity.LineItem {
		return entity.LineItem{
			Code:                 code,
			AuxCode:              code,
			Description:          desc,
			Quantity:             d("1"),
			UnitPrice:            d(base),
			Discount:             decimal.Zero,
			PriceTotalWithoutTax: d(base),
			Taxes: []entity.TaxItem{{
				Code:               sri.TaxCodeIVA,
				PercentageCode:     pct,
				Base:               d(base),
				Value:              d(value),
				AdditionalDiscount: decimal.Zero,
			}},
		}
	}
	return entity.Document{
		Environment:  sri.EnvironmentTest,
		DocumentType: sri.DocumentTypeInvoice,
		Emitter: entity.Emitter{
			BusinessName:         "Distribuidora Andina S.A.",
			TradeName:            "Andina",
			RUC:                  "0100067500001",
			MatrixAddress:        "Av. Solano 1-23 y Remigio Crespo, Cuenca",
			EstablishmentAddress: "Av. Solano 1-23 y Remigio Crespo, Cuenca",
			KeepsAccounting:      "SI",
			Phone:                "072800000",
		},
		Establishment: "001",
		EmissionPoint: "001",
		EmissionDate:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Sequential:    "000000005",
		NumericCode:   "00000001",
		EmissionType:  sri.EmissionTypeNormal,
		Customer: entity.Customer{
			Name:               "Comercializadora Quiteña Cía. Ltda.",
			Identification:     "1792146739001",
			IdentificationType: sri.IdentificationRUC,
			Address:            "Av. Amazonas N34-120, Quito",
			Email:              "facturas@quitena.ec",
			Phone:              "022500000",
		},
		Items: []entity.LineItem{
			line("P001", "Arroz 0%", "100.00", sri.PercentageZero, "0.00"),
			line("P002", "Aceite 12%", "22.50", sri.PercentageTwelve, "2.70"),
			line("P003", "Detergente 14%", "37.50", sri.PercentageFourteen, "5.25"),
			line("P004", "Servicio no objeto", "15.00", sri.PercentageNoTax, "0.00"),
			line("P005", "Libro exento", "30.00", sri.PercentageTaxExempt, "0.00"),
		},
		Payments: []entity.PaymentItem{{
			Method:   sri.PaymentCash,
			Total:    d("212.95"),
			Term:     0,
			TimeUnit: sri.TimeUnitDays,
		}},
		Tip: decimal.Zero,
	}
}
