package service

import (
	"context"
	"sync"
	"time"

	"github.com/jakeswenson/bear-query/internal/middleware"
	"github.com/jakeswenson/bear-query/internal/model"
	"github.com/jakeswenson/bear-query/internal/security"
	"github.com/jakeswenson/bear-query/internal/store"
	"github.com/jakeswenson/bear-query/internal/table"
	"github.com/jakeswenson/bear-query/internal/utils"
)

type QueryService interface {
	ExecuteQuery(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error)
	ValidateQuery(ctx context.Context, req *model.QueryRequest) error
	GetQueryStats(ctx context.Context) (*model.QueryStats, error)
}

type queryService struct {
	store        *store.Store
	sqlValidator *security.SQLValidator
	stats        *queryStats
}

type queryStats struct {
	totalQueries       int64
	successfulQueries  int64
	failedQueries      int64
	totalExecutionTime int64 // in nanoseconds
	lastQueryTime      time.Time
	mutex              sync.RWMutex
}

// NewQueryService creates a new instance of QueryService
func NewQueryService(st *store.Store, maxQueryLength int) QueryService {
	return &queryService{
		store:        st,
		sqlValidator: security.NewSQLValidator(maxQueryLength),
		stats:        &queryStats{},
	}
}

func (qs *queryService) ExecuteQuery(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error) {
	startTime := time.Now()

	// Reject non-read-only input before it reaches the engine
	if err := qs.sqlValidator.ValidateStatement(req.SQL); err != nil {
		qs.recordQueryStats(false, time.Since(startTime))
		middleware.RecordQueryError("rejected")
		return qs.createErrorResponse(utils.NewAppError(utils.ErrCodeQueryRejected, err.Error(), err), req.SQL), nil
	}

	// Execute query with timeout
	queryCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
		defer cancel()
	}

	result, err := qs.store.Query(queryCtx, req.SQL)
	if err != nil {
		qs.recordQueryStats(false, time.Since(startTime))
		appErr := utils.FromError(err)
		middleware.RecordQueryError(appErr.Code)
		return qs.createErrorResponse(appErr, req.SQL), nil
	}

	elapsed := time.Since(startTime)
	qs.recordQueryStats(true, elapsed)
	middleware.RecordQueryMetrics("success", elapsed, int64(result.Height()))

	return qs.buildResponse(result, elapsed), nil
}

func (qs *queryService) ValidateQuery(ctx context.Context, req *model.QueryRequest) error {
	req.ApplyDefaults()
	return qs.sqlValidator.ValidateStatement(req.SQL)
}

func (qs *queryService) GetQueryStats(ctx context.Context) (*model.QueryStats, error) {
	qs.stats.mutex.RLock()
	defer qs.stats.mutex.RUnlock()

	avgExecutionTime := 0.0
	if qs.stats.totalQueries > 0 {
		avgExecutionTime = float64(qs.stats.totalExecutionTime) / float64(qs.stats.totalQueries) / 1e9 // Convert to seconds
	}

	return &model.QueryStats{
		TotalQueries:      qs.stats.totalQueries,
		SuccessfulQueries: qs.stats.successfulQueries,
		FailedQueries:     qs.stats.failedQueries,
		AvgExecutionTime:  avgExecutionTime,
		LastQueryTime:     qs.stats.lastQueryTime,
	}, nil
}

// buildResponse converts a materialized table into the API response shape.
func (qs *queryService) buildResponse(result *table.Table, elapsed time.Duration) *model.QueryResponse {
	columns := make([]model.ColumnInfo, 0, result.Width())
	for _, col := range result.Columns() {
		nullable := false
		for row := 0; row < col.Len(); row++ {
			if col.IsNull(row) {
				nullable = true
				break
			}
		}
		columns = append(columns, model.ColumnInfo{
			Name:     col.Name,
			Type:     col.Kind.String(),
			Nullable: nullable,
		})
	}

	return &model.QueryResponse{
		Success: true,
		Columns: columns,
		Rows:    result.Rows(),
		Metadata: model.QueryMetadata{
			RowCount:        result.Height(),
			ColumnCount:     result.Width(),
			ExecutionTimeMs: elapsed.Milliseconds(),
			ExecutedAt:      time.Now(),
		},
	}
}

// createErrorResponse creates an error response
func (qs *queryService) createErrorResponse(appErr *utils.AppError, sql string) *model.QueryResponse {
	return &model.QueryResponse{
		Success: false,
		Error: &model.QueryError{
			Code:    appErr.Code,
			Message: appErr.Message,
			SQL:     sql,
		},
	}
}

func (qs *queryService) recordQueryStats(success bool, duration time.Duration) {
	qs.stats.mutex.Lock()
	defer qs.stats.mutex.Unlock()

	qs.stats.totalQueries++
	if success {
		qs.stats.successfulQueries++
	} else {
		qs.stats.failedQueries++
	}
	qs.stats.totalExecutionTime += duration.Nanoseconds()
	qs.stats.lastQueryTime = time.Now()
}
