package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakeswenson/bear-query/internal/database"
	"github.com/jakeswenson/bear-query/internal/schema"
	"github.com/jakeswenson/bear-query/internal/table"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{
			"schema discovery",
			&schema.DiscoveryError{Missing: "junction table"},
			ErrCodeSchemaDiscovery,
		},
		{
			"query failure",
			&database.QueryError{Query: "SELECT x", Cause: errors.New("no such column")},
			ErrCodeQueryFailed,
		},
		{
			"tabulize failure",
			&table.TabulizeError{Stage: "scan", Cause: errors.New("interrupted")},
			ErrCodeTabulateFailed,
		},
		{
			"wrapped query failure",
			fmt.Errorf("outer: %w", &database.QueryError{Cause: errors.New("syntax error")}),
			ErrCodeQueryFailed,
		},
		{
			"unknown error",
			errors.New("something else"),
			ErrCodeInternalError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromError(tc.err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(ErrCodeSchemaDiscovery))
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrCodeQueryFailed))
	assert.Equal(t, http.StatusForbidden, StatusFor(ErrCodeQueryRejected))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("NO_SUCH_CODE"))
}
