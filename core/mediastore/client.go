package mediastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Tunebox/logger"
	"Tunebox/model"
)

// Client Media Store API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建新的API客户端
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetTimeout 设置请求超时时间
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// BaseURL returns the Media Store address.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends the request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &TransportError{Op: op, URL: endpoint, Err: fmt.Errorf("创建请求失败: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Media Store request failed", logger.String("op", op), logger.ErrorField(err))
		return &TransportError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("读取响应失败: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: errors.New(errorMessage(raw, resp.Status))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("解析响应失败: %w", err)}
	}
	return nil
}

func errorMessage(raw []byte, status string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if msg := firstNonEmpty(body.Error, body.Message); msg != "" {
			return msg
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" && len(s) < 200 {
		return s
	}
	return status
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, URL: c.baseURL + path, Err: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

// ListSongs GET /song
func (c *Client) ListSongs(ctx context.Context) ([]model.Song, error) {
	var result struct {
		Songs []wireSong `json:"songs"`
	}
	if err := c.doJSON(ctx, "list songs", http.MethodGet, "/song", nil, &result); err != nil {
		return nil, err
	}
	return songsToModel(result.Songs), nil
}

// ListPlaylists GET /playlist
func (c *Client) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	var result struct {
		Playlists []wirePlaylist `json:"playlists"`
	}
	if err := c.doJSON(ctx, "list playlists", http.MethodGet, "/playlist", nil, &result); err != nil {
		return nil, err
	}
	return playlistsToModel(result.Playlists), nil
}

// GetPlaylist GET /playlist/{id}
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*model.Playlist, error) {
	var result struct {
		Playlist wirePlaylist `json:"playlist"`
	}
	path := "/playlist/" + url.PathEscape(playlistID)
	if err := c.doJSON(ctx, "get playlist", http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	p := result.Playlist.toModel()
	return &p, nil
}

// CreatePlaylist creates a playlist with optional initial items and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, name string, items []model.Song) (string, error) {
	if items == nil {
		items = []model.Song{}
	}
	in := struct {
		Name  string       `json:"name"`
		Items []model.Song `json:"items"`
	}{Name: name, Items: items}

	var result struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := c.doJSON(ctx, "create playlist", http.MethodPost, "/playlist", in, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

// AddSong appends a stored song to a playlist.
func (c *Client) AddSong(ctx context.Context, playlistID, songID string) error {
	in := map[string]string{"songId": songID}
	path := "/playlist/" + url.PathEscape(playlistID)
	return c.doJSON(ctx, "add song", http.MethodPut, path, in, nil)
}

// Upload describes one song upload.
type Upload struct {
	Filename string
	Content  io.Reader
	Name     string
	Artist   string
	Genre    string
	Image    string
}

// UploadSong POST /song，返回歌曲的公开地址
func (c *Client) UploadSong(ctx context.Context, up Upload) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ key, value string }{
		{"name", up.Name},
		{"artist", up.Artist},
		{"genre", up.Genre},
		{"image", up.Image},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.key, f.value); err != nil {
			return "", &TransportError{Op: "upload song", URL: c.baseURL + "/song", Err: err}
		}
	}

	part, err := mw.CreateFormFile("song", up.Filename)
	if err != nil {
		return "", &TransportError{Op: "upload song", URL: c.baseURL + "/song", Err: err}
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return "", &TransportError{Op: "upload song", URL: c.baseURL + "/song", Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &TransportError{Op: "upload song", URL: c.baseURL + "/song", Err: err}
	}

	var result struct {
		Message string `json:"message"`
		Song    string `json:"song"`
	}
	if err := c.do(ctx, "upload song", http.MethodPost, "/song", &buf, mw.FormDataContentType(), &result); err != nil {
		return "", err
	}
	return result.Song, nil
}
