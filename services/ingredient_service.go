package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nutriguard/risk"
)

// IngredientService calls the external ingredient analyzer over HTTP and
// implements risk.IngredientAnalyzer. The analyzer may be slow; the request
// carries the caller's context on top of the client timeout.
type IngredientService struct {
	client  *http.Client
	baseURL string
}

func NewIngredientService(baseURL string) *IngredientService {
	return &IngredientService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

type analyzeRequest struct {
	Ingredients string   `json:"ingredients"`
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
}

func (s *IngredientService) Analyze(ctx context.Context, ingredients string, profile *risk.Profile) (*risk.IngredientReport, error) {
	body := analyzeRequest{Ingredients: ingredients}
	if profile != nil {
		body.Conditions = profile.Conditions
		body.Medications = profile.Medications
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/analyze", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analyzer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("analyzer error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("analyzer error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var report risk.IngredientReport
	if err := json.Unmarshal(respBytes, &report); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	return &report, nil
}
