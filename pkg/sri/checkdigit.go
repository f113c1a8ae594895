package sri

import (
	"errors"
	"fmt"
)

// ErrInvalidKey la cadena recibida para el dígito verificador no es numérica o está vacía.
var ErrInvalidKey = errors.New("sri: clave inválida para dígito verificador")

// ComputeCheckDigit calcula el dígito verificador módulo 11 de una cadena de dígitos.
// Recorre la clave de derecha a izquierda con factores 2..7 cíclicos; el resultado
// 11 se convierte en 0 y 10 en 1.
// Una clave compuesta solo por ceros es válida (resultado 0).
func ComputeCheckDigit(key string) (int, error) {
	if key == "" {
		return 0, fmt.Errorf("%w: cadena vacía", ErrInvalidKey)
	}
	factor := 2
	total := 0
	for i := len(key) - 1; i >= 0; i-- {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: carácter %q en la posición %d", ErrInvalidKey, c, i)
		}
		total += int(c-'0') * factor
		if factor == 7 {
			factor = 2
		} else {
			factor++
		}
	}
	check := 11 - total%11
	switch check {
	case 11:
		check = 0
	case 10:
		check = 1
	}
	return check, nil
}
