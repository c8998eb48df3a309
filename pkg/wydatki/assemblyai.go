package wydatki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const assemblyAIURL = "https://api.assemblyai.com/v2"

// AssemblyAI transcribes Polish voice messages through the AssemblyAI REST
// API: upload the audio, create a transcript job, poll until it settles.
type AssemblyAI struct {
	token        string
	baseURL      string
	pollInterval time.Duration
}

func NewAssemblyAI(token string) *AssemblyAI {
	return &AssemblyAI{
		token:        token,
		baseURL:      assemblyAIURL,
		pollInterval: 2 * time.Second,
	}
}

type transcriptRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (a *AssemblyAI) Transcribe(ctx context.Context, audioFilePath string) (string, error) {
	audio, err := os.ReadFile(audioFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	audioURL, err := a.upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}

	id, err := a.createTranscript(ctx, audioURL)
	if err != nil {
		return "", fmt.Errorf("failed to create transcript: %w", err)
	}

	return a.waitForTranscript(ctx, id)
}

func (a *AssemblyAI) upload(ctx context.Context, audio []byte) (string, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/upload", bytes.NewReader(audio))
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Authorization", a.token)

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := a.do(req, &result); err != nil {
		return "", err
	}

	return result.UploadURL, nil
}

func (a *AssemblyAI) createTranscript(ctx context.Context, audioURL string) (string, error) {
	jsonData, _ := json.Marshal(transcriptRequest{
		AudioURL:     audioURL,
		LanguageCode: "pl",
	})

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/transcript", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", a.token)

	var result transcriptResponse
	if err := a.do(req, &result); err != nil {
		return "", err
	}

	return result.ID, nil
}

// waitForTranscript polls the transcript until it completes or errors.
func (a *AssemblyAI) waitForTranscript(ctx context.Context, id string) (string, error) {
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/transcript/"+id, nil)
		req.Header.Set("Authorization", a.token)

		var result transcriptResponse
		if err := a.do(req, &result); err != nil {
			return "", err
		}

		switch result.Status {
		case "completed":
			return result.Text, nil
		case "error":
			return "", fmt.Errorf("transcription failed: %s", result.Error)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(a.pollInterval):
		}
	}
}

func (a *AssemblyAI) do(req *http.Request, out any) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api error: %s", string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse assemblyai response: %w", err)
	}

	return nil
}
