package validation

import "strings"

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// NormalizeCNPJ strips punctuation, keeping only digits.
func NormalizeCNPJ(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ValidCNPJ reports whether raw (formatted or not) is a CNPJ with correct
// check digits. Sequences of a single repeated digit are rejected.
func ValidCNPJ(raw string) bool {
	cnpj := NormalizeCNPJ(raw)
	if len(cnpj) != 14 {
		return false
	}
	if strings.Count(cnpj, cnpj[:1]) == len(cnpj) {
		return false
	}

	digits := make([]int, len(cnpj))
	for i, r := range cnpj {
		digits[i] = int(r - '0')
	}

	return cnpjCheckDigit(digits[:12], cnpjFirstWeights) == digits[12] &&
		cnpjCheckDigit(digits[:13], cnpjSecondWeights) == digits[13]
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	if rem := sum % 11; rem >= 2 {
		return 11 - rem
	}
	return 0
}

// FormatCNPJ renders a valid CNPJ as 00.000.000/0000-00. Invalid input is
// returned unchanged.
func FormatCNPJ(raw string) string {
	c := NormalizeCNPJ(raw)
	if len(c) != 14 {
		return raw
	}
	return c[0:2] + "." + c[2:5] + "." + c[5:8] + "/" + c[8:12] + "-" + c[12:14]
}
