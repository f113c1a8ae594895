package emission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/sri-facturacion/internal/domain"
	"github.com/jhoicas/sri-facturacion/internal/domain/entity"
	"github.com/jhoicas/sri-facturacion/internal/domain/repository"
	catalog "github.com/jhoicas/sri-facturacion/pkg/sri"
)

// RIDEUseCase genera la representación impresa (PDF) de un comprobante autorizado.
type RIDEUseCase struct {
	comprobantes repository.ComprobanteRepository
	generator    RIDEGenerator
}

// NewRIDEUseCase construye el caso de uso.
func NewRIDEUseCase(comprobantes repository.ComprobanteRepository, generator RIDEGenerator) *RIDEUseCase {
	return &RIDEUseCase{comprobantes: comprobantes, generator: generator}
}

// DownloadRIDE recupera el comprobante, verifica que esté AUTORIZADO y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el comprobante no existe.
//   - domain.ErrConflict         si aún no está autorizado.
func (uc *RIDEUseCase) DownloadRIDE(ctx context.Context, accessKey string) (pdfBytes []byte, filename string, err error) {
	if err := catalog.ValidateAccessKey(accessKey); err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	comp, err := uc.comprobantes.GetByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, "", fmt.Errorf("ride: obtener comprobante: %w", err)
	}
	if comp == nil {
		return nil, "", fmt.Errorf("%w: comprobante %s", domain.ErrNotFound, accessKey)
	}
	if comp.Status != entity.ComprobanteStatusAuthorized {
		return nil, "", fmt.Errorf("%w: el comprobante está en estado %s, el RIDE solo se genera autorizado",
			domain.ErrConflict, comp.Status)
	}

	var doc entity.Document
	if err := json.Unmarshal(comp.Document, &doc); err != nil {
		return nil, "", fmt.Errorf("ride: leer documento guardado: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateRIDE(ctx, RIDEData{
		Document:            &doc,
		AccessKey:           comp.AccessKey,
		Status:              comp.Status,
		AuthorizationNumber: comp.AuthorizationNumber,
		AuthorizedAt:        comp.AuthorizedAt,
	})
	if err != nil {
		return nil, "", fmt.Errorf("ride: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("factura_%s-%s-%s.pdf", comp.Establishment, comp.EmissionPoint, comp.Sequential)
	return pdfBytes, filename, nil
}
