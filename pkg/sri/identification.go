package sri

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentification la cédula o el RUC no superan la verificación de dígitos.
var ErrInvalidIdentification = errors.New("sri: identificación inválida")

// coeficientes del RUC de sociedades privadas (tercer dígito 9) y entidades públicas (6).
var (
	privateRUCWeights = [9]int{4, 3, 2, 7, 6, 5, 4, 3, 2}
	publicRUCWeights  = [8]int{3, 2, 7, 6, 5, 4, 3, 2}
)

// ValidateCedula valida una cédula ecuatoriana de 10 dígitos (módulo 10, coeficientes 2.1.2.1...).
func ValidateCedula(id string) error {
	if len(id) != 10 || !isDigits(id) {
		return fmt.Errorf("%w: la cédula debe tener 10 dígitos", ErrInvalidIdentification)
	}
	if err := validateProvince(id); err != nil {
		return err
	}
	if id[2] >= '6' {
		return fmt.Errorf("%w: tercer dígito de cédula fuera de rango", ErrInvalidIdentification)
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := int(id[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	expected := (10 - sum%10) % 10
	if got := int(id[9] - '0'); got != expected {
		return fmt.Errorf("%w: dígito verificador de cédula %d, se esperaba %d", ErrInvalidIdentification, got, expected)
	}
	return nil
}

// ValidateRUC valida un RUC de 13 dígitos según el tipo de contribuyente (tercer dígito):
// 0-5 persona natural (cédula + establecimiento), 6 entidad pública, 9 sociedad privada.
func ValidateRUC(ruc string) error {
	if len(ruc) != 13 || !isDigits(ruc) {
		return fmt.Errorf("%w: el RUC debe tener 13 dígitos", ErrInvalidIdentification)
	}
	if err := validateProvince(ruc); err != nil {
		return err
	}
	switch third := ruc[2]; {
	case third < '6':
		if ruc[10:] == "000" {
			return fmt.Errorf("%w: establecimiento 000 no permitido", ErrInvalidIdentification)
		}
		return ValidateCedula(ruc[:10])
	case third == '6':
		if ruc[9:] == "0000" {
			return fmt.Errorf("%w: establecimiento 0000 no permitido", ErrInvalidIdentification)
		}
		return checkRUCDigit(ruc, publicRUCWeights[:], 8)
	case third == '9':
		if ruc[10:] == "000" {
			return fmt.Errorf("%w: establecimiento 000 no permitido", ErrInvalidIdentification)
		}
		return checkRUCDigit(ruc, privateRUCWeights[:], 9)
	default:
		return fmt.Errorf("%w: tercer dígito de RUC %c no reconocido", ErrInvalidIdentification, third)
	}
}

// ValidateBuyerIdentification aplica la verificación que corresponde al tipo de identificación.
// Pasaporte e identificación del exterior no tienen dígito verificador.
func ValidateBuyerIdentification(idType, id string) error {
	switch idType {
	case IdentificationRUC:
		return ValidateRUC(id)
	case IdentificationCedula:
		return ValidateCedula(id)
	case IdentificationFinalConsumer:
		if id != FinalConsumerID {
			return fmt.Errorf("%w: consumidor final debe usar %s", ErrInvalidIdentification, FinalConsumerID)
		}
		return nil
	case IdentificationPassport, IdentificationForeign:
		if id == "" {
			return fmt.Errorf("%w: identificación vacía", ErrInvalidIdentification)
		}
		return nil
	default:
		return fmt.Errorf("%w: tipo de identificación %q no reconocido", ErrInvalidIdentification, idType)
	}
}

func validateProvince(id string) error {
	province := int(id[0]-'0')*10 + int(id[1]-'0')
	if (province < 1 || province > 24) && province != 30 {
		return fmt.Errorf("%w: código de provincia %02d inválido", ErrInvalidIdentification, province)
	}
	return nil
}

func checkRUCDigit(ruc string, weights []int, pos int) error {
	sum := 0
	for i, w := range weights {
		sum += int(ruc[i]-'0') * w
	}
	expected := 11 - sum%11
	if expected == 11 {
		expected = 0
	}
	if got := int(ruc[pos] - '0'); got != expected {
		return fmt.Errorf("%w: dígito verificador de RUC %d, se esperaba %d", ErrInvalidIdentification, got, expected)
	}
	return nil
}
