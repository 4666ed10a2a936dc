package util

import (
    "strconv"
    "strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// SplitSymbols splits a comma-separated ticker list, trims, upper-cases and
// deduplicates while preserving input order.
func SplitSymbols(csv string) []string {
    parts := strings.Split(csv, ",")
    seen := make(map[string]struct{}, len(parts))
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        s := strings.ToUpper(strings.TrimSpace(p))
        if s == "" {
            continue
        }
        if _, dup := seen[s]; dup {
            continue
        }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    return out
}

// SanitizeName strips control characters and angle brackets from user-supplied
// names. Leading/trailing whitespace is dropped.
func SanitizeName(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    for _, r := range s {
        if r < 0x20 || r == 0x7f || r == '<' || r == '>' {
            continue
        }
        b.WriteRune(r)
    }
    return strings.TrimSpace(b.String())
}
