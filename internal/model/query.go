package model

import (
	"time"
)

// QueryRequest represents a generic query execution request against the
// stable relation surface.
type QueryRequest struct {
	SQL     string `json:"sql" validate:"required"`
	Timeout int    `json:"timeout" validate:"omitempty,min=1,max=300"` // timeout in seconds
}

// ApplyDefaults fills in default values for optional fields
func (qr *QueryRequest) ApplyDefaults() {
	if qr.Timeout <= 0 {
		qr.Timeout = 30
	}
}

// ColumnInfo represents column information in the result set
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// QueryResponse represents the response for a query execution
type QueryResponse struct {
	Columns  []ColumnInfo    `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	Metadata QueryMetadata   `json:"metadata"`
	Success  bool            `json:"success"`
	Error    *QueryError     `json:"error,omitempty"`
}

// QueryMetadata contains metadata about the query execution
type QueryMetadata struct {
	RowCount        int       `json:"rowCount"`
	ColumnCount     int       `json:"columnCount"`
	ExecutionTimeMs int64     `json:"executionTimeMs"`
	ExecutedAt      time.Time `json:"executedAt"`
}

// QueryError represents query-specific error information
type QueryError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	SQL     string `json:"sql,omitempty"`
}

// QueryStats represents query execution statistics
type QueryStats struct {
	TotalQueries      int64     `json:"totalQueries"`
	SuccessfulQueries int64     `json:"successfulQueries"`
	FailedQueries     int64     `json:"failedQueries"`
	AvgExecutionTime  float64   `json:"avgExecutionTime"`
	LastQueryTime     time.Time `json:"lastQueryTime"`
}

// SchemaInfo describes the discovered variable schema, for diagnostics.
type SchemaInfo struct {
	JunctionTable string `json:"junctionTable"`
	EntityColumn  string `json:"entityColumn"`
	LabelColumn   string `json:"labelColumn"`
}
