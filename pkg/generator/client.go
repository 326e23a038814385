package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"

	"tuddy-chat-be/internal/config"
	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/pkg/logger"
)

// IClient is the upstream answer-generation service.
type IClient interface {
	Ask(ctx context.Context, path string, payload TurnPayload, attachments []Attachment) string
	SubmitIndexing(ctx context.Context, userId string, fileKey string) error
	Health(ctx context.Context) error
}

// TurnPayload carries one chat turn to the generator.
type TurnPayload struct {
	UserId    string
	SessionId string
	Query     string
	NTurns    int
	FileNames []string
}

// Attachment is an inline file carried by the turn that uploaded it.
type Attachment struct {
	Filename string
	Data     []byte
}

type askResponse struct {
	Response string `json:"response"`
}

type Client struct {
	baseURL    string
	ingestPath string
	healthPath string
	httpClient *http.Client
	log        logger.ILogger
}

func NewClient(cfg config.GeneratorConfig, log logger.ILogger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		ingestPath: cfg.IngestPath,
		healthPath: cfg.HealthPath,
		httpClient: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
		log: log,
	}
}

// Ask sends one turn and always returns a printable answer. Transport and
// decoding failures degrade to a fallback string so a broken upstream never
// aborts the turn.
func (c *Client) Ask(ctx context.Context, path string, payload TurnPayload, attachments []Attachment) string {
	var (
		body        io.Reader
		contentType string
		err         error
	)
	if len(attachments) > 0 {
		body, contentType, err = c.buildMultipartBody(payload, attachments)
	} else {
		body, contentType, err = c.buildJSONBody(payload)
	}
	if err != nil {
		c.log.Error("generator", "Failed to encode chat request", map[string]interface{}{"error": err.Error()})
		return constant.FallbackAnswer
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		c.log.Error("generator", "Failed to build chat request", map[string]interface{}{"error": err.Error()})
		return constant.FallbackAnswer
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("generator", "Chat request failed", map[string]interface{}{"error": err.Error(), "path": path})
		return constant.FallbackAnswer
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("generator", "Chat request returned non-2xx", map[string]interface{}{"status": resp.StatusCode, "path": path})
		return constant.FallbackAnswer
	}

	var parsed askResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.log.Error("generator", "Failed to decode chat response", map[string]interface{}{"error": err.Error()})
		return constant.FallbackAnswer
	}
	if parsed.Response == "" {
		return constant.EmptyAnswer
	}
	return parsed.Response
}

func (c *Client) buildJSONBody(payload TurnPayload) (io.Reader, string, error) {
	raw, err := json.Marshal(map[string]interface{}{
		"user_id":    payload.UserId,
		"session_id": payload.SessionId,
		"query":      payload.Query,
		"n_turns":    payload.NTurns,
		"file_names": payload.FileNames,
	})
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(raw), "application/json", nil
}

func (c *Client) buildMultipartBody(payload TurnPayload, attachments []Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"user_id":    payload.UserId,
		"session_id": payload.SessionId,
		"query":      payload.Query,
		"n_turns":    strconv.Itoa(payload.NTurns),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for _, name := range payload.FileNames {
		if err := writer.WriteField("file_names", name); err != nil {
			return nil, "", err
		}
	}
	for _, attachment := range attachments {
		part, err := writer.CreateFormFile("files", attachment.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(attachment.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

// SubmitIndexing asks the generator to pull and index a stored artifact.
func (c *Client) SubmitIndexing(ctx context.Context, userId string, fileKey string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("user_id", userId); err != nil {
		return err
	}
	if err := writer.WriteField("file_key", fileKey); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.ingestPath, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("indexing request returned status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.healthPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("generator health returned status %d", resp.StatusCode)
	}
	return nil
}
