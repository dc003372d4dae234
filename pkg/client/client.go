package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pibridge/pibridge/pkg/types"
)

// Client is an HTTP client for the pibridge API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new pibridge API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Transfers block until complete; no client-side deadline here.
			Timeout: 0,
		},
	}
}

// doRequest performs an HTTP request with API key authentication.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-PiBridge-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	return resp, nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
}

func pathQuery(segments []string) string {
	q := url.Values{}
	for _, seg := range segments {
		q.Add("path", seg)
	}
	return q.Encode()
}

// ListFiles provisions the workspace and lists the given path beneath it.
func (c *Client) ListFiles(ctx context.Context, user string, segments []string) ([]types.FileDescriptor, error) {
	p := fmt.Sprintf("/workspaces/%s/files", url.PathEscape(user))
	if q := pathQuery(segments); q != "" {
		p += "?" + q
	}
	resp, err := c.doRequest(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var files []types.FileDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return files, nil
}

// DownloadFiles asks the server to download the named items and returns the
// local paths written on the server side.
func (c *Client) DownloadFiles(ctx context.Context, user string, segments, names []string) ([]string, error) {
	p := fmt.Sprintf("/workspaces/%s/downloads", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodPost, p, types.TransferRequest{Path: segments, Names: names})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var result types.DownloadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.LocalPaths, nil
}

// UploadFiles asks the server to upload the given server-local files into the
// workspace path.
func (c *Client) UploadFiles(ctx context.Context, user string, segments, localPaths []string) error {
	p := fmt.Sprintf("/workspaces/%s/uploads", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodPost, p, types.UploadRequest{Path: segments, LocalPaths: localPaths})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// CreateFolder creates a folder in the workspace path.
func (c *Client) CreateFolder(ctx context.Context, user string, segments []string, name string) error {
	p := fmt.Sprintf("/workspaces/%s/folders", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodPost, p, types.FolderRequest{Path: segments, Name: name})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// RenameFile renames an entry in the workspace path.
func (c *Client) RenameFile(ctx context.Context, user string, segments []string, oldName, newName string) error {
	p := fmt.Sprintf("/workspaces/%s/rename", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodPost, p, types.RenameRequest{Path: segments, OldName: oldName, NewName: newName})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// DeleteFiles removes the named entries from the workspace path.
func (c *Client) DeleteFiles(ctx context.Context, user string, segments, names []string) error {
	p := fmt.Sprintf("/workspaces/%s/files", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodDelete, p, types.DeleteRequest{Path: segments, Names: names})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// ReadFile returns the content of a file in the workspace path.
func (c *Client) ReadFile(ctx context.Context, user string, segments []string, name string) (string, error) {
	p := fmt.Sprintf("/workspaces/%s/file?name=%s", url.PathEscape(user), url.QueryEscape(name))
	if q := pathQuery(segments); q != "" {
		p += "&" + q
	}
	resp, err := c.doRequest(ctx, http.MethodGet, p, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(content), nil
}

// SaveFile writes the full content of a file in the workspace path.
func (c *Client) SaveFile(ctx context.Context, user string, segments []string, name, content string) error {
	p := fmt.Sprintf("/workspaces/%s/file", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodPut, p, types.SaveFileRequest{Path: segments, Name: name, Content: content})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// ProgressToken fetches a short-lived token for the progress socket.
func (c *Client) ProgressToken(ctx context.Context, user string) (string, error) {
	p := fmt.Sprintf("/workspaces/%s/progress-token", url.PathEscape(user))
	resp, err := c.doRequest(ctx, http.MethodPost, p, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var result types.ProgressTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Token, nil
}
