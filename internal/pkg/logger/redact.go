package logger

// RedactSecret masks a credential for safe logging, keeping the first four
// characters so operators can tell keys apart.
// "a1b2c3d4e5f6" → "a1b2***"
// Short values (≤4 chars) are fully masked.
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:4] + "***"
}
