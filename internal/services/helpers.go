package services

import (
	"context"
	"strings"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// normaliseEmail strips surrounding whitespace. Case is preserved so the stored
// address is exactly the one the user submitted.
func normaliseEmail(email string) string {
	return strings.TrimSpace(email)
}

// emailDomain returns the part after the last "@", or "" when there is none.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}
