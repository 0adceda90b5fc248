package client

import (
	"context"
	"net/http"

	"docsite/types"
)

// SaveContent persists website data and returns the stored copy (the backend
// may assign an id on first save).
func (c *APIClient) SaveContent(ctx context.Context, data *types.WebsiteData) (*types.WebsiteData, error) {
	var resp struct {
		Data *types.WebsiteData `json:"data"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/content/save", data, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return data, nil
	}
	return resp.Data, nil
}

// GetContent fetches stored website data by id
func (c *APIClient) GetContent(ctx context.Context, id string) (*types.WebsiteData, error) {
	var resp struct {
		Data *types.WebsiteData `json:"data"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/content/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RegenerateField asks the AI pipeline to rewrite a single field or section.
// fieldPath uses the same dotted addressing as the content editor.
func (c *APIClient) RegenerateField(ctx context.Context, contentID, fieldPath, instructions string) (string, error) {
	payload := map[string]interface{}{
		"content_id":   contentID,
		"field_path":   fieldPath,
		"instructions": instructions,
	}
	var resp struct {
		Value string `json:"value"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/content/regenerate", payload, &resp); err != nil {
		return "", err
	}
	return resp.Value, nil
}

// AnalyzeContent requests backend SEO/quality analysis of the current content
func (c *APIClient) AnalyzeContent(ctx context.Context, data *types.WebsiteData) (map[string]interface{}, error) {
	var resp struct {
		Analysis map[string]interface{} `json:"analysis"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/content/analyze", data, &resp); err != nil {
		return nil, err
	}
	return resp.Analysis, nil
}
