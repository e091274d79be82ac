package googleanalytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

const reportingEndpoint = "https://analyticsreporting.googleapis.com/v4/reports:batchGet"

// ReportingScope is the OAuth scope required to read reporting data.
const ReportingScope = "https://www.googleapis.com/auth/analytics.readonly"

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Metric struct {
	Expression string `json:"expression"`
}

type Dimension struct {
	Name string `json:"name"`
}

type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortOrder string `json:"sortOrder,omitempty"`
}

// ReportRequest is one reporting API request. Metrics carries at most
// maxMetricsPerChunk entries plus the injected order-by metric.
type ReportRequest struct {
	ViewID           string      `json:"viewId"`
	DateRanges       []DateRange `json:"dateRanges"`
	Metrics          []Metric    `json:"metrics"`
	Dimensions       []Dimension `json:"dimensions,omitempty"`
	OrderBys         []OrderBy   `json:"orderBys,omitempty"`
	PageSize         int64       `json:"pageSize,omitempty"`
	SamplingLevel    string      `json:"samplingLevel,omitempty"`
	IncludeEmptyRows bool        `json:"includeEmptyRows,omitempty"`
}

type GetReportsResponse struct {
	Reports []Report `json:"reports"`
}

type Report struct {
	Data          ReportData `json:"data"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// ReportData carries the rows of one report. RowCount is a pointer on purpose:
// the API omits it entirely for certain metric and date combinations, and that
// absence is handled differently from a genuine zero-row response.
type ReportData struct {
	RowCount *int64      `json:"rowCount,omitempty"`
	Rows     []DataRow   `json:"rows,omitempty"`
	Totals   []RowValues `json:"totals,omitempty"`
}

type DataRow struct {
	Dimensions []string    `json:"dimensions,omitempty"`
	Metrics    []RowValues `json:"metrics"`
}

// RowValues holds one date range's metric values, positionally matching the
// request's metric order.
type RowValues struct {
	Values []string `json:"values"`
}

// ReportClient executes one reporting request. Implementations surface API
// errors as *googleapi.Error so the executor can classify them by status code.
type ReportClient interface {
	ExecuteReport(request *ReportRequest) (*GetReportsResponse, error)
}

// HTTPReportClient calls the reporting API's batchGet endpoint over an
// oauth2-authorized HTTP client.
type HTTPReportClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewHTTPReportClient(ctx context.Context, tokenSource oauth2.TokenSource) *HTTPReportClient {
	return &HTTPReportClient{
		httpClient: oauth2.NewClient(ctx, tokenSource),
		endpoint:   reportingEndpoint,
	}
}

func (client *HTTPReportClient) ExecuteReport(request *ReportRequest) (*GetReportsResponse, error) {
	body := struct {
		ReportRequests []*ReportRequest `json:"reportRequests"`
	}{ReportRequests: []*ReportRequest{request}}

	payload, err := json.Marshal(&body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal report request")
	}

	httpRequest, err := http.NewRequest(http.MethodPost, client.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build report request")
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := client.httpClient.Do(httpRequest)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute report request")
	}
	defer httpResponse.Body.Close()

	// Non-2xx becomes a *googleapi.Error carrying the status code and message.
	if err := googleapi.CheckResponse(httpResponse); err != nil {
		return nil, err
	}

	var response GetReportsResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "failed to decode report response")
	}
	return &response, nil
}
