package scanner

import "errors"

var (
	ErrNumberMinus    = errors.New("invalid number: missing digits after minus")
	ErrNumberNoDigits = errors.New("invalid number: no digits")
	ErrLeadingZero    = errors.New("invalid number: leading zero")
	ErrNumberFraction = errors.New("invalid number: no digits after decimal")
	ErrNumberExponent = errors.New("invalid number: no digits in exponent")
	ErrNumberTail     = errors.New("invalid number: trailing characters")
)

// ValidNumber checks s against the standard JSON number grammar. On failure it
// also returns the codepoint offset within s where the grammar broke.
func ValidNumber(s []rune) (int, error) {
	i := 0
	n := len(s)
	isDigit := func(i int) bool { return i < n && s[i] >= '0' && s[i] <= '9' }

	if i < n && s[i] == '-' {
		i++
		if !isDigit(i) {
			return i, ErrNumberMinus
		}
	}

	// Must have at least one digit
	if !isDigit(i) {
		return i, ErrNumberNoDigits
	}

	// Integer part
	if s[i] == '0' {
		i++
		// After 0, must be . or e/E or end
		if isDigit(i) {
			return i, ErrLeadingZero
		}
	} else {
		for isDigit(i) {
			i++
		}
	}

	// Fraction
	if i < n && s[i] == '.' {
		i++
		if !isDigit(i) {
			return i, ErrNumberFraction
		}
		for isDigit(i) {
			i++
		}
	}

	// Exponent
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if !isDigit(i) {
			return i, ErrNumberExponent
		}
		for isDigit(i) {
			i++
		}
	}

	if i != n {
		return i, ErrNumberTail
	}
	return 0, nil
}
