package sri

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Longitudes de la clave de acceso (Ficha Técnica, sección 5.2).
const (
	AccessKeyBaseLength = 48
	AccessKeyLength     = 49
)

// AccessKeyParams contiene los campos que forman la clave de acceso, en el orden exigido.
type AccessKeyParams struct {
	EmissionDate  time.Time // ddMMyyyy
	DocumentType  string    // 2 dígitos (01 = factura)
	RUC           string    // 13 dígitos
	Environment   string    // 1 = pruebas, 2 = producción
	Establishment string    // 3 dígitos
	EmissionPoint string    // 3 dígitos
	Sequential    string    // 9 dígitos
	NumericCode   string    // hasta 8 dígitos; se completa con ceros a la izquierda
	EmissionType  string    // 1 = normal
}

// AccessKeyParts clave de acceso descompuesta en sus campos.
type AccessKeyParts struct {
	AccessKeyParams
	CheckDigit int
}

// BuildAccessKey arma la clave de 48 dígitos y le agrega el dígito verificador módulo 11.
// Formato: fecha(8) + tipo(2) + ruc(13) + ambiente(1) + establecimiento(3) + punto(3) +
// secuencial(9) + código numérico(8) + tipo emisión(1) + verificador(1).
func BuildAccessKey(p AccessKeyParams) (string, error) {
	if p.EmissionDate.IsZero() {
		return "", fmt.Errorf("%w: fecha de emisión obligatoria", ErrInvalidKey)
	}
	numericCode := p.NumericCode
	if len(numericCode) < 8 {
		numericCode = strings.Repeat("0", 8-len(numericCode)) + numericCode
	}
	fields := []struct {
		name  string
		value string
		size  int
	}{
		{"fecha de emisión", p.EmissionDate.Format("02012006"), 8},
		{"tipo de comprobante", p.DocumentType, 2},
		{"RUC", p.RUC, 13},
		{"ambiente", p.Environment, 1},
		{"establecimiento", p.Establishment, 3},
		{"punto de emisión", p.EmissionPoint, 3},
		{"secuencial", p.Sequential, 9},
		{"código numérico", numericCode, 8},
		{"tipo de emisión", p.EmissionType, 1},
	}
	var sb strings.Builder
	sb.Grow(AccessKeyLength)
	for _, f := range fields {
		if len(f.value) != f.size || !isDigits(f.value) {
			return "", fmt.Errorf("%w: %s debe tener %d dígitos, se recibió %q", ErrInvalidKey, f.name, f.size, f.value)
		}
		sb.WriteString(f.value)
	}
	base := sb.String()
	digit, err := ComputeCheckDigit(base)
	if err != nil {
		return "", err
	}
	return base + strconv.Itoa(digit), nil
}

// ValidateAccessKey verifica longitud, contenido numérico y dígito verificador.
func ValidateAccessKey(key string) error {
	if len(key) != AccessKeyLength {
		return fmt.Errorf("%w: la clave de acceso debe tener %d dígitos, tiene %d", ErrInvalidKey, AccessKeyLength, len(key))
	}
	if !isDigits(key) {
		return fmt.Errorf("%w: la clave de acceso solo admite dígitos", ErrInvalidKey)
	}
	expected, err := ComputeCheckDigit(key[:AccessKeyBaseLength])
	if err != nil {
		return err
	}
	if got := int(key[AccessKeyBaseLength] - '0'); got != expected {
		return fmt.Errorf("%w: dígito verificador %d, se esperaba %d", ErrInvalidKey, got, expected)
	}
	return nil
}

// ParseAccessKey valida la clave y la descompone en sus campos.
func ParseAccessKey(key string) (*AccessKeyParts, error) {
	if err := ValidateAccessKey(key); err != nil {
		return nil, err
	}
	date, err := time.Parse("02012006", key[0:8])
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de emisión inválida: %v", ErrInvalidKey, err)
	}
	return &AccessKeyParts{
		AccessKeyParams: AccessKeyParams{
			EmissionDate:  date,
			DocumentType:  key[8:10],
			RUC:           key[10:23],
			Environment:   key[23:24],
			Establishment: key[24:27],
			EmissionPoint: key[27:30],
			Sequential:    key[30:39],
			NumericCode:   key[39:47],
			EmissionType:  key[47:48],
		},
		CheckDigit: int(key[48] - '0'),
	}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
