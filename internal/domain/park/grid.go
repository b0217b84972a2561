package park

import (
	"strconv"
	"strings"
)

const (
	GridColumns = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	GridRows    = 16
)

// GridLocations devuelve las 416 celdas en orden de columna y luego fila (A1, A2, ..., Z16).
func GridLocations() []string {
	out := make([]string, 0, len(GridColumns)*GridRows)
	for _, col := range GridColumns {
		for row := 1; row <= GridRows; row++ {
			out = append(out, string(col)+strconv.Itoa(row))
		}
	}
	return out
}

// ValidLocation indica si loc es una celda de la grilla (p.ej. "B7").
func ValidLocation(loc string) bool {
	col, row, ok := splitLocation(loc)
	if !ok {
		return false
	}
	return strings.ContainsRune(GridColumns, col) && row >= 1 && row <= GridRows
}

// LessLocation ordena por columna y luego por fila numérica (A2 < A10 < B1).
func LessLocation(a, b string) bool {
	ca, ra, okA := splitLocation(a)
	cb, rb, okB := splitLocation(b)
	if !okA || !okB {
		return a < b
	}
	if ca != cb {
		return ca < cb
	}
	return ra < rb
}

func splitLocation(loc string) (rune, int, bool) {
	if len(loc) < 2 {
		return 0, 0, false
	}
	col := rune(loc[0])
	row, err := strconv.Atoi(loc[1:])
	if err != nil {
		return 0, 0, false
	}
	return col, row, true
}
