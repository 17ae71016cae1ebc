package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName normaliza nombres para comparaciones sin distinguir mayúsculas (usernames, grupos).
func FoldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// SameName compara dos nombres sin distinguir mayúsculas.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}
