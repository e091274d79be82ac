package googleanalytics

import (
	"time"

	"gaimporter/model"
	U "gaimporter/util"

	log "github.com/sirupsen/logrus"
)

// QueryOptions tunes one query invocation. MappingOverrides is merged ahead of
// the default mapping table; the remaining fields are passed through to the
// reporting API requests.
type QueryOptions struct {
	MappingOverrides map[int]model.MappingEntry
	OrderBys         []OrderBy
	PageSize         int64
	SamplingLevel    string
	IncludeEmptyRows bool
}

// QueryServiceConfig wires a QueryService's collaborators.
type QueryServiceConfig struct {
	ViewID         string
	Settings       *model.ProjectSettings
	Heartbeat      HeartbeatFunc
	PingInterval   time.Duration
	OrderByFactory OrderByFactory
}

// QueryService imports one view's reporting data: it resolves internal metric
// indices to remote metrics, executes chunked requests with retries, merges the
// chunk responses into a single table and projects its columns back to metric
// indices. One Query call owns all of its mutable state; a service instance can
// be reused across calls.
type QueryService struct {
	client         ReportClient
	viewID         string
	mapping        *MetricMapping
	executor       *retryingExecutor
	orderByFactory OrderByFactory
}

func NewQueryService(client ReportClient, config QueryServiceConfig) *QueryService {
	orderByFactory := config.OrderByFactory
	if orderByFactory == nil {
		orderByFactory = defaultOrderByFactory
	}

	return &QueryService{
		client:         client,
		viewID:         config.ViewID,
		mapping:        NewMetricMapping(config.Settings),
		executor:       newRetryingExecutor(client, config.Heartbeat, config.PingInterval),
		orderByFactory: orderByFactory,
	}
}

// SetOnQueryMade registers an observer invoked once per successfully completed
// chunk request, for progress reporting.
func (service *QueryService) SetOnQueryMade(callback func()) {
	service.executor.onQueryMade = callback
}

// Query fetches one day's report for the given dimensions and internal metric
// indices and returns the merged, projected table. Chunks execute strictly
// sequentially; all transient API conditions are absorbed here and only
// unknown-mapping, daily-quota, retry-exhaustion and unclassified remote errors
// reach the caller.
func (service *QueryService) Query(date string, dimensions []string,
	metricIndices []int, options *QueryOptions) (*model.ReportTable, error) {

	logCtx := log.WithFields(log.Fields{
		"req_id":  U.GetUUID(),
		"view_id": service.viewID,
		"date":    date,
	})

	if len(metricIndices) == 0 {
		logCtx.Warn("No metric indices requested. Returning empty table.")
		return model.NewReportTable(), nil
	}

	var overrides map[int]model.MappingEntry
	if options != nil {
		overrides = options.MappingOverrides
	}
	resolved, err := service.mapping.Resolve(metricIndices, overrides)
	if err != nil {
		return nil, err
	}

	orderBy := service.orderByFactory(resolved.GAMetrics, options)
	chunks := chunkMetrics(resolved.GAMetrics)
	defaultValues := newDefaultValues(resolved.GAMetrics)
	table := model.NewReportTable()

	logCtx.WithFields(log.Fields{
		"metrics": len(resolved.GAMetrics), "chunks": len(chunks), "order_by": orderBy.FieldName,
	}).Info("Executing google analytics query.")

	for _, chunk := range chunks {
		requestMetrics := chunkRequestMetrics(chunk, orderBy)
		request := service.buildRequest(date, dimensions, requestMetrics, orderBy, options)

		response, respondedMetrics, err := service.executor.executeChunk(logCtx, request, requestMetrics)
		if err != nil {
			return nil, err
		}

		// Only credit this chunk's own metrics that survived any reduction, so
		// the injected order-by metric is never summed twice.
		credited := intersectMetrics(chunk, respondedMetrics)
		mergeChunkResponse(table, response, respondedMetrics, credited, dimensions, defaultValues)
	}

	projectColumns(table, metricIndices, resolved, service.mapping)

	logCtx.WithField("rows", table.RowCount()).Info("Google analytics query completed.")
	return table, nil
}

func (service *QueryService) buildRequest(date string, dimensions []string,
	requestMetrics []string, orderBy OrderBy, options *QueryOptions) *ReportRequest {

	requestDimensions := make([]Dimension, 0, len(dimensions))
	for _, dimension := range dimensions {
		requestDimensions = append(requestDimensions, Dimension{Name: dimension})
	}

	request := &ReportRequest{
		ViewID:     service.viewID,
		DateRanges: []DateRange{{StartDate: date, EndDate: date}},
		Metrics:    buildRequestMetrics(requestMetrics),
		Dimensions: requestDimensions,
		// Every chunk sorts by the same metric in the same direction so the
		// merged rows line up across chunks.
		OrderBys: []OrderBy{orderBy},
	}

	if options != nil {
		request.PageSize = options.PageSize
		request.SamplingLevel = options.SamplingLevel
		request.IncludeEmptyRows = options.IncludeEmptyRows
	}
	return request
}

func intersectMetrics(metrics []string, allowed []string) []string {
	intersection := make([]string, 0, len(metrics))
	for _, metric := range metrics {
		if U.ContainsStringInArray(allowed, metric) {
			intersection = append(intersection, metric)
		}
	}
	return intersection
}

// GetMetricIndicesToGAMetrics exposes the main mapping table for reuse.
func (service *QueryService) GetMetricIndicesToGAMetrics() map[int]model.MappingEntry {
	return service.mapping.GetMetricIndicesToGAMetrics()
}

// GetEcommerceMetricIndicesToGAMetrics exposes the ecommerce sub-mapping.
func (service *QueryService) GetEcommerceMetricIndicesToGAMetrics() map[int]model.MappingEntry {
	return service.mapping.GetEcommerceMetricIndicesToGAMetrics()
}

// GetGoalSpecificMetricIndicesToGAMetrics exposes one goal's sub-mapping.
func (service *QueryService) GetGoalSpecificMetricIndicesToGAMetrics(remoteGoalID int64) map[int]model.MappingEntry {
	return service.mapping.GetGoalSpecificMetricIndicesToGAMetrics(remoteGoalID)
}
