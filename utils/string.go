package utils

import (
	"fmt"
	"strconv"
	"strings"
)

func FormatBoolean(yesno bool, yes string, no string) string {
	if yesno {
		return yes
	}
	return no
}

// FormatMoney renders 1234567.891 as "$1,234,567.89".
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// ParseKeyValue splits "field=value" pairs as given on the command line.
func ParseKeyValue(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid pair %q, expected field=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
