package tagger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tagdesk/internal/errors"
)

type ollamaRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Images []string `json:"images"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Ollama asks a local multimodal model (llava and friends) through the
// Ollama HTTP API.
type Ollama struct {
	url    string
	model  string
	mode   string
	client *http.Client
}

// NewOllama targets the server at baseURL, e.g. http://localhost:11434
func NewOllama(baseURL, model, mode string) *Ollama {
	return &Ollama{
		url:    strings.TrimRight(baseURL, "/") + "/api/generate",
		model:  model,
		mode:   mode,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Name implements Tagger
func (o *Ollama) Name() string { return "ollama" }

// Close implements Tagger
func (o *Ollama) Close() error { return nil }

// Tag implements Tagger
func (o *Ollama) Tag(ctx context.Context, imagePath string, progress func(string)) ([]string, error) {
	progress("Preparing image...")
	data, err := jpegForUpload(imagePath)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(&ollamaRequest{
		Model:  o.model,
		Prompt: buildPrompt(o.mode, 0),
		Stream: false,
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewModelError("bad server url", o.Name(), errors.ModelUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	progress("Asking " + o.model + "...")
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, errors.NewModelError("server unreachable", o.Name(), errors.ModelUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewModelError("failed to read response", o.Name(), errors.ModelFailed, err)
	}

	var out ollamaResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.NewModelError("malformed response", o.Name(), errors.ModelFailed, err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != "" {
		return nil, errors.NewModelError(fmt.Sprintf("server returned %d", resp.StatusCode), o.Name(), errors.ModelFailed, errors.New(out.Error))
	}

	return parseReply(o.mode, out.Response, 0), nil
}
