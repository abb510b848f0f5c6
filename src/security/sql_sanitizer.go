package security

import (
	"fmt"
	"regexp"
	"strings"
)

// SQLSanitizer guards the pieces of a query that cannot be parameterized:
// ORDER BY identifiers and free-text search terms.
type SQLSanitizer struct {
	dangerousPatterns []*regexp.Regexp
	sortColumns       map[string]bool
}

// NewSQLSanitizer creates a new SQL sanitizer
func NewSQLSanitizer() *SQLSanitizer {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)(^|\s)(union|select|insert|update|delete|drop|create|alter|exec|execute|declare|grant|revoke|truncate)\s`),
		regexp.MustCompile(`(--|/\*|\*/|;)`),
		regexp.MustCompile(`(?i)(xp_|sp_|information_schema|pg_catalog)`),
	}

	return &SQLSanitizer{
		dangerousPatterns: patterns,
		sortColumns: map[string]bool{
			"created_at":   true,
			"published_at": true,
			"title":        true,
			"views":        true,
		},
	}
}

// ValidateSearchQuery rejects search terms carrying SQL metacharacters or
// statement keywords before they reach an ILIKE pattern.
func (s *SQLSanitizer) ValidateSearchQuery(query string) error {
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return fmt.Errorf("search query too long (max: 200 characters)")
	}

	for _, pattern := range s.dangerousPatterns {
		if pattern.MatchString(query) {
			return fmt.Errorf("potentially dangerous pattern detected in search query")
		}
	}

	return nil
}

// OrderByClause builds an ORDER BY fragment from whitelisted column and
// direction values. Anything outside the whitelist falls back to the
// default ordering rather than reaching the SQL string.
func (s *SQLSanitizer) OrderByClause(column, direction string) string {
	column = strings.ToLower(strings.TrimSpace(column))
	if !s.sortColumns[column] {
		column = "created_at"
	}

	direction = strings.ToUpper(strings.TrimSpace(direction))
	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// ValidateLimitOffset validates pagination parameters to prevent resource exhaustion
func (s *SQLSanitizer) ValidateLimitOffset(limit, offset int) error {
	if limit < 1 {
		return fmt.Errorf("limit must be positive")
	}
	if limit > 100 {
		return fmt.Errorf("limit too large (max: 100)")
	}
	if offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}
	return nil
}
