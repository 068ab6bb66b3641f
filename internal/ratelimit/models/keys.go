package models

import "strings"

// SanitizeKeySegment escapes the key delimiter so a user-controlled segment
// such as "dr:admin" cannot address a neighbouring key.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewLockoutKey keys failed logins by lowercase login and client address.
func NewLockoutKey(login, ip string) string {
	return "lockout:" + SanitizeKeySegment(strings.ToLower(strings.TrimSpace(login))) + ":" + SanitizeKeySegment(ip)
}

// NewIPKey keys the public request budget of one client address.
func NewIPKey(scope, ip string) string {
	return "ip:" + SanitizeKeySegment(scope) + ":" + SanitizeKeySegment(ip)
}
