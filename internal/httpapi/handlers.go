package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"textproc/internal/domain"
)

var features = []string{"summarization", "sentiment_analysis", "keyword_extraction"}

// SummarizeRequest is the POST /summarize body.
type SummarizeRequest struct {
	Text *string `json:"text"`
}

// SummarizeResponse carries either a result or an in-band error.
type SummarizeResponse struct {
	Success bool                   `json:"success"`
	Result  *domain.AnalysisResult `json:"result"`
	Error   *string                `json:"error"`
}

type validationError struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Text Processing API is running",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":   "healthy",
		"service":  serviceName,
		"version":  serviceVersion,
		"features": features,
		"backend":  s.cfg.Backend,
	}
	if s.backend != nil {
		healthy := s.backend.HealthCheck(r.Context())
		body["backend_healthy"] = healthy
		if !healthy {
			body["status"] = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"api_version":         serviceVersion,
		"service_name":        serviceName,
		"available_endpoints": []string{"/", "/health", "/summarize", "/stats"},
		"processing_features": []string{
			"extractive_summarization",
			"sentiment_analysis",
			"keyword_extraction",
		},
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r)
	if err != nil {
		status := http.StatusUnprocessableEntity
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, validationError{Detail: err.Error()})
		return
	}

	s.logger.WithField("chars", utf8.RuneCountInString(text)).Info("processing text")

	result, err := s.analyze(r.Context(), text)
	if err != nil {
		s.logger.WithError(err).Error("text processing failed")
		msg := fmt.Sprintf("Processing error: %v", err)
		writeJSON(w, http.StatusOK, SummarizeResponse{Success: false, Error: &msg})
		return
	}

	s.logger.Info("text processing completed")
	writeJSON(w, http.StatusOK, SummarizeResponse{Success: true, Result: &result})
}

// analyze converts a panic in the analyzer into an error so it is reported in-band.
func (s *Server) analyze(ctx context.Context, text string) (res domain.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if s.cfg.WriteTimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.WriteTimeoutSecs)*time.Second)
		defer cancel()
	}
	return s.analyzer.Analyze(ctx, text)
}

func decodeText(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", errors.New("request body is empty")
	}
	var req SummarizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("invalid JSON: %v", err)
	}
	if req.Text == nil {
		return "", errors.New("text: field required")
	}
	if *req.Text == "" {
		return "", errors.New("text: ensure this value has at least 1 characters")
	}
	return *req.Text, nil
}
