package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxSuffixAttempts bounds the -N probe so a corrupt table cannot spin forever.
const maxSuffixAttempts = 10000

var suffixedIdentifier = regexp.MustCompile(`^(.+)-(\d+)$`)

// UniqueIdentifier returns base if it is free in scope, else the first free
// base-1, base-2, ... An empty base stays empty.
func UniqueIdentifier(ctx context.Context, store Store, scope IdentifierScope, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", nil
	}
	candidate := base
	for i := 1; i <= maxSuffixAttempts; i++ {
		exists, err := store.IdentifierExists(ctx, scope, candidate)
		if err != nil {
			return "", fmt.Errorf("check %s %q: %w", scope, candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free %s for %q after %d attempts", scope, base, maxSuffixAttempts)
}

// SplitSuffix splits "C-2" into ("C", 2, true). Identifiers without a numeric
// suffix return ok=false.
func SplitSuffix(identifier string) (base string, n int, ok bool) {
	m := suffixedIdentifier.FindStringSubmatch(strings.TrimSpace(identifier))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return m[1], n, true
}
