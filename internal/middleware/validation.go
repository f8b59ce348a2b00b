package middleware

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxChannelIDLen    = 32  // channels.channel_id VARCHAR(32)
	MaxChannelInputLen = 256 // free-form channel reference (URL, handle, name)
	MaxCPM             = 1000
)

// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
var channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrorResponse writes the standard API error body: {"error": message, "code": code}.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// UpstreamErrorResponse is ErrorResponse plus the failing collaborator
// ("provider" or "storage").
func UpstreamErrorResponse(c fiber.Ctx, status int, origin, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":  message,
		"code":   "UPSTREAM_ERROR",
		"origin": origin,
	})
}

// ValidateChannelID checks that a canonical channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "missing channelId"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 32 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateChannelInput checks a free-form channel reference. Its content is
// interpreted by the resolver, so only presence and length are enforced.
func ValidateChannelInput(input string) (string, string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "missing channel"
	}
	if len(input) > MaxChannelInputLen {
		return "", "channel must be at most 256 characters"
	}
	return input, ""
}

// ParseCPM parses an optional cost-per-mille query value, falling back to def
// when raw is empty.
func ParseCPM(raw string, def float64) (float64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, ""
	}
	cpm, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(cpm) || math.IsInf(cpm, 0) {
		return 0, "cpm must be a number"
	}
	if cpm < 0 || cpm > MaxCPM {
		return 0, "cpm must be between 0 and 1000"
	}
	return cpm, ""
}
