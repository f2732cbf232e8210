package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName devuelve la clave de identidad de un metal o cliente: espacios recortados y forma NFC,
// de modo que "نحاس" escrito con distintas secuencias de combinación sea el mismo nombre.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
