package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefijos de ID por tipo de entidad.
const (
	PrefixUser         = "U"
	PrefixLead         = "L"
	PrefixClient       = "C"
	PrefixOrder        = "O"
	PrefixInvoice      = "I"
	PrefixEvent        = "E"
	PrefixNotification = "N"
)

// NextID siguiente ID secuencial a partir de las claves existentes: prefijo más el mayor
// sufijo numérico + 1, con cuatro dígitos. Los sufijos no numéricos se ignoran.
func NextID(prefix string, keys []string) string {
	return formatID(prefix, maxSuffix(prefix, keys)+1)
}

func maxSuffix(prefix string, keys []string) int {
	n := 0
	for _, k := range keys {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		n = max(n, v)
	}
	return n
}

func formatID(prefix string, n int) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}
