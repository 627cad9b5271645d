package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"scrumlog/internal/logger"
	"scrumlog/internal/model"
)

const (
	notionBaseURL = "https://api.notion.com"
	notionVersion = "2022-06-28"
)

var tagLabels = map[model.WorkTag]string{
	model.TagFeature: "기능",
	model.TagBugfix:  "버그수정",
	model.TagMeeting: "회의",
	model.TagReview:  "리뷰",
	model.TagEtc:     "기타",
}

var statusLabels = map[model.WorkStatus]string{
	model.StatusDone:       "완료",
	model.StatusInProgress: "진행 중",
	model.StatusBlocked:    "블로킹",
}

// NotionService mirrors a date's work items into a Notion database with a
// replace-all strategy: archive the date's existing rows, then create one
// row per item. The mirror is one-directional and partial-failure tolerant.
type NotionService struct {
	baseURL    string
	apiKey     string
	databaseID string
	client     *http.Client
}

func NewNotionService(apiKey, databaseID string) *NotionService {
	return &NotionService{
		baseURL:    notionBaseURL,
		apiKey:     apiKey,
		databaseID: ExtractPageID(databaseID),
		client:     &http.Client{},
	}
}

func (s *NotionService) Configured() bool {
	return s.apiKey != "" && s.databaseID != ""
}

// Upload replaces the date's rows. Archive failures are tolerated (stale
// rows may remain); creation reports success as long as at least one row
// lands, with a warning carrying the failure count.
func (s *NotionService) Upload(ctx context.Context, date string, items []model.WorkItem) (*model.NotionUploadResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: notion api key / database id", ErrNotConfigured)
	}

	if err := s.archiveDate(ctx, date); err != nil {
		logger.Warn("notion archive skipped", "date", date, "err", err)
	}

	url := "https://notion.so/" + s.databaseID
	if len(items) == 0 {
		return &model.NotionUploadResult{URL: url}, nil
	}

	var failed int
	var firstErr error
	for _, item := range items {
		if err := s.createRow(ctx, date, item); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if failed == len(items) {
		return nil, externalErr("notion upload", firstErr)
	}
	result := &model.NotionUploadResult{URL: url}
	if failed > 0 {
		result.Warning = fmt.Sprintf("%d개 중 %d개 항목 업로드에 실패했습니다", len(items), failed)
		logger.Warn("notion upload partial failure", "date", date, "failed", failed, "total", len(items))
	}
	return result, nil
}

// archiveDate queries the date's existing rows and archives each one.
func (s *NotionService) archiveDate(ctx context.Context, date string) error {
	body := map[string]interface{}{
		"filter": map[string]interface{}{
			"property": "날짜",
			"date":     map[string]string{"equals": date},
		},
	}
	var resp struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := s.doJSON(ctx, "POST", "/v1/databases/"+s.databaseID+"/query", body, &resp); err != nil {
		return err
	}
	for _, page := range resp.Results {
		patch := map[string]interface{}{"archived": true}
		if err := s.doJSON(ctx, "PATCH", "/v1/pages/"+page.ID, patch, nil); err != nil {
			logger.Warn("notion archive page failed", "page", page.ID, "err", err)
		}
	}
	return nil
}

func (s *NotionService) createRow(ctx context.Context, date string, item model.WorkItem) error {
	body := map[string]interface{}{
		"parent": map[string]string{"type": "database_id", "database_id": s.databaseID},
		"properties": map[string]interface{}{
			"이름": map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]string{"content": item.Content}},
				},
			},
			"날짜": map[string]interface{}{"date": map[string]string{"start": date}},
			"태그": map[string]interface{}{"select": map[string]string{"name": tagLabels[item.Tag]}},
			"상태": map[string]interface{}{"status": map[string]string{"name": statusLabels[item.Status]}},
			"순서": map[string]interface{}{"number": item.ItemOrder},
		},
	}
	return s.doJSON(ctx, "POST", "/v1/pages", body, nil)
}

func (s *NotionService) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion api %s %s: status %d: %s", method, path, resp.StatusCode, data)
	}

	if out != nil {
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
	}
	return nil
}

var hex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
var hex32InURL = regexp.MustCompile(`([a-f0-9]{32})(?:\?|$|#)`)

// ExtractPageID normalizes a Notion page URL, dashed UUID, or bare id to the
// 32-hex page id. Unrecognized input is returned as-is.
func ExtractPageID(urlOrID string) string {
	trimmed := strings.TrimSpace(urlOrID)

	if strings.HasPrefix(trimmed, "http") {
		if m := hex32InURL.FindStringSubmatch(trimmed); m != nil {
			return m[1]
		}
		segment := trimmed
		if i := strings.LastIndex(segment, "/"); i >= 0 {
			segment = segment[i+1:]
		}
		if i := strings.Index(segment, "?"); i >= 0 {
			segment = segment[:i]
		}
		parts := strings.Split(segment, "-")
		last := parts[len(parts)-1]
		if hex32.MatchString(strings.ToLower(last)) {
			return last
		}
		trimmed = segment
	}

	if hex32.MatchString(strings.ToLower(trimmed)) {
		return trimmed
	}
	dashless := strings.ReplaceAll(trimmed, "-", "")
	if hex32.MatchString(strings.ToLower(dashless)) {
		return dashless
	}
	return trimmed
}
