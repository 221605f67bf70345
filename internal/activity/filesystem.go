package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"backoffice/internal/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const schemaVersion = "1"

var schemaVersionKey = []byte("schema_version")

// BleveActivityEntry is the document shape indexed in bleve.
type BleveActivityEntry struct {
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	Object     string    `json:"object"`
}

// BleveClient implements IActivityLogger on a bleve index.
type BleveClient struct {
	index bleve.Index
}

// NewFilesystemClient opens or creates the index at the configured directory.
// An index written with another schema version is discarded and recreated.
func NewFilesystemClient(config models.ActivityConfiguration) IActivityLogger {
	dir := config.Filesystem.Directory

	index, err := bleve.Open(dir)
	if err == nil {
		storedVersion, versionErr := index.GetInternal(schemaVersionKey)
		if versionErr == nil && string(storedVersion) == schemaVersion {
			return &BleveClient{index: index}
		}
		zap.L().Warn("Activity index schema mismatch, recreating index",
			zap.String("old_version", string(storedVersion)),
			zap.String("new_version", schemaVersion))
		_ = index.Close()
		if err = os.RemoveAll(dir); err != nil {
			zap.L().Fatal("Failed to remove outdated activity index", zap.Error(err))
		}
	}

	index, err = bleve.New(dir, buildIndexMapping())
	if err != nil {
		zap.L().Fatal("Failed to create filesystem activity index", zap.Error(err))
	}
	if err = index.SetInternal(schemaVersionKey, []byte(schemaVersion)); err != nil {
		zap.L().Fatal("Failed to set schema version", zap.Error(err))
	}
	return &BleveClient{index: index}
}

// NewMemoryClient keeps the audit trail in memory for the lifetime of the process.
func NewMemoryClient() IActivityLogger {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		zap.L().Fatal("Failed to create in-memory activity index", zap.Error(err))
	}
	return &BleveClient{index: index}
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	keywordMapping := bleve.NewKeywordFieldMapping()
	dateMapping := bleve.NewDateTimeFieldMapping()
	textMapping := bleve.NewTextFieldMapping()

	disabledMapping := bleve.NewTextFieldMapping()
	disabledMapping.Index = false
	disabledMapping.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("action", keywordMapping)
	docMapping.AddFieldMappingsAt("object_type", keywordMapping)
	docMapping.AddFieldMappingsAt("object_id", keywordMapping)
	docMapping.AddFieldMappingsAt("timestamp", dateMapping)
	docMapping.AddFieldMappingsAt("message", textMapping)
	docMapping.AddFieldMappingsAt("object", disabledMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

func parseTimestamp(fields map[string]any) time.Time {
	if s, ok := fields["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c *BleveClient) Close() error {
	return c.index.Close()
}

func (c *BleveClient) Send(activity models.Activity) error {
	ts, err := strconv.ParseInt(activity.Filter.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp: %w", err)
	}

	var objectJSON string
	if activity.Object != nil {
		var b []byte
		b, err = json.Marshal(activity.Object)
		if err != nil {
			return fmt.Errorf("failed to marshal object: %w", err)
		}
		objectJSON = string(b)
	}

	entry := BleveActivityEntry{
		Message:    activity.Message,
		Timestamp:  time.Unix(0, ts),
		Action:     activity.Filter.Fields["action"],
		ObjectType: activity.Filter.Fields["object_type"],
		ObjectID:   activity.Filter.Fields["object_id"],
		Object:     objectJSON,
	}

	if err = c.index.Index(uuid.New().String(), entry); err != nil {
		return fmt.Errorf("failed to index activity: %w", err)
	}

	return nil
}

func (c *BleveClient) Search(searchCriteria map[string][]string) ([]map[string]any, error) {
	now := time.Now()
	dateQuery := bleve.NewDateRangeQuery(now.AddDate(0, 0, -30), now)
	dateQuery.SetField("timestamp")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(buildBleveQuery(searchCriteria), dateQuery))
	searchRequest.Size = 100
	searchRequest.SortBy([]string{"-timestamp"})
	searchRequest.Fields = []string{"*"}

	result, err := c.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search activity: %w", err)
	}

	activities := make([]map[string]any, 0, len(result.Hits))
	for _, hit := range result.Hits {
		entry := map[string]any{}
		for _, field := range []string{"action", "object_type", "object_id", "message"} {
			value, _ := hit.Fields[field].(string)
			entry[field] = value
		}

		if t := parseTimestamp(hit.Fields); !t.IsZero() {
			entry["timestamp"] = strconv.FormatInt(t.UnixNano(), 10)
		}

		if objectStr, _ := hit.Fields["object"].(string); objectStr != "" {
			var object map[string]any
			if json.Unmarshal([]byte(objectStr), &object) == nil {
				entry["object"] = object
			}
		}

		activities = append(activities, entry)
	}

	return activities, nil
}

func (c *BleveClient) CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error) {
	now := time.Now()
	dateQuery := bleve.NewDateRangeQuery(now.AddDate(0, 0, -days), now)
	dateQuery.SetField("timestamp")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(buildBleveQuery(searchCriteria), dateQuery))
	searchRequest.Size = 0

	facet := bleve.NewFacetRequest("timestamp", days+1)
	for i := days; i >= 0; i-- {
		dayStart := now.AddDate(0, 0, -i).Truncate(24 * time.Hour)
		facet.AddDateTimeRange(dayStart.Format("2006-01-02"), dayStart, dayStart.Add(24*time.Hour))
	}
	searchRequest.AddFacet("daily_counts", facet)

	result, err := c.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity by day: %w", err)
	}

	dailyFacet, ok := result.Facets["daily_counts"]
	if !ok {
		return []models.TimeSeriesPoint{}, nil
	}

	points := make([]models.TimeSeriesPoint, 0, len(dailyFacet.DateRanges))
	for _, dr := range dailyFacet.DateRanges {
		if dr.Count > 0 {
			points = append(points, models.TimeSeriesPoint{Date: dr.Name, Count: int64(dr.Count)})
		}
	}

	return points, nil
}

func buildBleveQuery(searchCriteria map[string][]string) query.Query {
	var queries []query.Query

	for key, values := range searchCriteria {
		switch {
		case len(values) == 1:
			termQuery := bleve.NewTermQuery(values[0])
			termQuery.SetField(key)
			queries = append(queries, termQuery)
		case len(values) > 1:
			termQueries := make([]query.Query, 0, len(values))
			for _, v := range values {
				tq := bleve.NewTermQuery(v)
				tq.SetField(key)
				termQueries = append(termQueries, tq)
			}
			disjunction := bleve.NewDisjunctionQuery(termQueries...)
			disjunction.SetMin(1)
			queries = append(queries, disjunction)
		}
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
