package params

// ParseInt reads a leading decimal integer the way the control page and
// the message link have always sent values: surrounding whitespace is
// skipped, an optional sign is accepted, parsing stops at the first
// non-digit, and input without digits yields 0.
func ParseInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}

	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<20 {
			// Saturate, every field range is far below this.
			break
		}
	}

	if neg {
		return -n
	}
	return n
}
