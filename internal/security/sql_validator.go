package security

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotReadOnlyQuery = errors.New("only SELECT queries are allowed")
	ErrEmptyQuery       = errors.New("query cannot be empty")
	ErrQueryTooLong     = errors.New("query exceeds maximum length")
	ErrMultipleQueries  = errors.New("multiple statements are not allowed")
	ErrDangerousKeyword = errors.New("statement keyword not allowed in read-only queries")
	ErrCommentInQuery   = errors.New("SQL comments are not allowed")
)

// dangerousKeywords are statement-level keywords that have no place in a
// read-only query. The connection itself enforces query_only; this check
// exists to reject bad input with a clear error before it reaches the
// engine.
var dangerousKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "REPLACE", "DROP", "CREATE", "ALTER",
	"TRUNCATE", "ATTACH", "DETACH", "PRAGMA", "VACUUM", "REINDEX",
	"BEGIN", "COMMIT", "ROLLBACK", "SAVEPOINT", "RELEASE", "GRANT", "REVOKE",
}

// DefaultMaxQueryLength is used when callers do not configure a limit.
const DefaultMaxQueryLength = 10000

// SQLValidator validates that caller-supplied SQL is a single read-only
// query against the stable relation surface.
type SQLValidator struct {
	maxQueryLength int
}

// NewSQLValidator creates a new SQLValidator instance
func NewSQLValidator(maxQueryLength int) *SQLValidator {
	if maxQueryLength <= 0 {
		maxQueryLength = DefaultMaxQueryLength
	}
	return &SQLValidator{
		maxQueryLength: maxQueryLength,
	}
}

// ValidateStatement validates that the SQL statement is safe and read-only
func (sv *SQLValidator) ValidateStatement(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return ErrEmptyQuery
	}
	if len(sql) > sv.maxQueryLength {
		return ErrQueryTooLong
	}

	if strings.Contains(sql, "--") || strings.Contains(sql, "/*") {
		return ErrCommentInQuery
	}

	normalized := sv.normalizeSQL(trimmed)
	if strings.Contains(normalized, ";") {
		return ErrMultipleQueries
	}

	upper := strings.ToUpper(normalized)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return ErrNotReadOnlyQuery
	}

	for _, keyword := range dangerousKeywords {
		if containsKeyword(upper, keyword) {
			return fmt.Errorf("%w: %s", ErrDangerousKeyword, keyword)
		}
	}

	return nil
}

// normalizeSQL strips a single trailing semicolon and surrounding whitespace.
func (sv *SQLValidator) normalizeSQL(sql string) string {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, ";")
	return strings.TrimSpace(sql)
}

// containsKeyword reports whether keyword occurs as a whole word.
func containsKeyword(upper, keyword string) bool {
	idx := 0
	for {
		pos := strings.Index(upper[idx:], keyword)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(keyword)
		beforeOK := start == 0 || !isWordChar(upper[start-1])
		afterOK := end == len(upper) || !isWordChar(upper[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
