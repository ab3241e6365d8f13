package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxChannelIDLen = 32 // channels.channel_id VARCHAR(32)
	MaxGroupIDLen   = 36 // channel_groups.group_id VARCHAR(36)
	MaxUnitIDLen    = 36 // branches/teams IDs VARCHAR(36)
	MaxMetricKeyLen = 32
	DefaultRankN    = 10
	MaxRankN        = 100
)

var (
	// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// unitIDRe matches internal group/branch/team identifiers.
	unitIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// metricKeyRe matches ranking metric keys (camelCase field names).
	metricKeyRe = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 32 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateGroupID checks that a channel group ID is well-formed.
func ValidateGroupID(id string) (string, string) {
	return validateUnitID(id, "groupId", MaxGroupIDLen)
}

// ValidateBranchID checks that a branch ID is well-formed.
func ValidateBranchID(id string) (string, string) {
	return validateUnitID(id, "branchId", MaxUnitIDLen)
}

// ValidateTeamID checks that a team ID is well-formed.
func ValidateTeamID(id string) (string, string) {
	return validateUnitID(id, "teamId", MaxUnitIDLen)
}

func validateUnitID(id, field string, maxLen int) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", field + " is required"
	}
	if len(id) > maxLen {
		return "", field + " must be at most " + strconv.Itoa(maxLen) + " characters"
	}
	if !unitIDRe.MatchString(id) {
		return "", field + " contains invalid characters"
	}
	return id, ""
}

// ValidateMetricKey checks a leaderboard metric key's shape. Whether the key
// names a known metric is the ranking engine's concern; an unknown key ranks
// everything at zero rather than failing.
func ValidateMetricKey(key string) (string, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "metric is required"
	}
	if len(key) > MaxMetricKeyLen {
		return "", "metric must be at most 32 characters"
	}
	if !metricKeyRe.MatchString(key) {
		return "", "metric contains invalid characters"
	}
	return key, ""
}

// ValidateLimit parses an optional result limit, defaulting and clamping.
func ValidateLimit(raw string) (int, string) {
	if strings.TrimSpace(raw) == "" {
		return DefaultRankN, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "limit must be an integer"
	}
	if n < 1 {
		return 0, "limit must be at least 1"
	}
	if n > MaxRankN {
		n = MaxRankN
	}
	return n, ""
}
