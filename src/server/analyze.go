package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kartik220803/image-analyzer/src/analyses"
	"github.com/kartik220803/image-analyzer/src/vision"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AnalyzeRes is the JSON response of the anonymous-capable analyze routes.
type AnalyzeRes struct {
	Success  bool           `json:"success"`
	ImageURL string         `json:"imageUrl"`
	Results  vision.Results `json:"results"`
}

func (s *Serve) analyze(ctx context.Context, data []byte) (vision.Results, error) {
	res, err := s.annotator.Annotate(ctx, data)
	if err != nil {
		return vision.Results{}, err
	}
	return vision.Normalize(res), nil
}

// trim runs the retention sweep for the user. Failures are logged, never
// surfaced to the triggering request.
func (s *Serve) trim(ctx context.Context, userID string) {
	if err := s.retention.Enforce(ctx, userID); err != nil {
		logger.Error().Msgf("retention trim for user %s failed: %v", userID, err)
	}
}

func (s *Serve) persist(ctx context.Context, userID, imageURL string, results vision.Results, saved bool) (*analyses.Analysis, error) {
	analysis := &analyses.Analysis{
		ID:        uuid.NewString(),
		UserID:    userID,
		ImageURL:  imageURL,
		Results:   results,
		IsSaved:   saved,
		CreatedAt: time.Now(),
	}

	if err := s.analyses.Insert(analysis); err != nil {
		return nil, err
	}

	s.trim(ctx, userID)
	return analysis, nil
}

func (s *Serve) handleUpload(w http.ResponseWriter, req *http.Request) {
	data, imageURL, err := s.ingestRequest(req)
	if err != nil {
		if errors.Is(err, errNoImage) {
			writeError(400, errNoImage.Error(), w)
		} else {
			logger.Error().Msgf("failed to ingest image: %v", err)
			writeError(500, err.Error(), w)
		}
		return
	}

	results, err := s.analyze(req.Context(), data)
	if err != nil {
		logger.Error().Msgf("failed to analyze image: %v", err)
		writeError(500, err.Error(), w)
		return
	}

	if _, err := s.persist(req.Context(), callerID(req), imageURL, results, true); err != nil {
		logger.Error().Msgf("failed to save analysis: %v", err)
		writeError(500, "Error saving analysis", w)
		return
	}

	writeJSON(200, results, w)
}

func (s *Serve) handleAnalyzeAnonymous(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(400, "multipart form missing or malformed", w)
		return
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		writeError(400, errNoImage.Error(), w)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(500, "Something went wrong", w)
		return
	}

	imageURL, err := s.uploadBlob(req.Context(), header.Filename, data)
	if err != nil {
		logger.Error().Msgf("failed to upload image: %v", err)
		writeError(500, err.Error(), w)
		return
	}

	results, err := s.analyze(req.Context(), data)
	if err != nil {
		logger.Error().Msgf("failed to analyze image: %v", err)
		writeError(500, err.Error(), w)
		return
	}

	// Anonymous analyses are never persisted.
	writeJSON(200, AnalyzeRes{Success: true, ImageURL: imageURL, Results: results}, w)
}

func (s *Serve) handleAnalyzeURL(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		ImageURL string `json:"imageUrl"`
	}

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil || payload.ImageURL == "" {
		writeError(400, "imageUrl is required", w)
		return
	}

	user := callerUser(req)

	// Only a record that will be persisted needs a mirrored blob.
	data, imageURL, err := s.ingestURL(req.Context(), payload.ImageURL, user != nil)
	if err != nil {
		logger.Error().Msgf("failed to fetch image: %v", err)
		writeError(500, err.Error(), w)
		return
	}

	results, err := s.analyze(req.Context(), data)
	if err != nil {
		logger.Error().Msgf("failed to analyze image: %v", err)
		writeError(500, err.Error(), w)
		return
	}

	if user != nil {
		if _, err := s.persist(req.Context(), user.ID, imageURL, results, false); err != nil {
			logger.Error().Msgf("failed to save analysis: %v", err)
			writeError(500, "Error saving analysis", w)
			return
		}
	}

	writeJSON(200, AnalyzeRes{Success: true, ImageURL: imageURL, Results: results}, w)
}

const historyLimit = 20

func (s *Serve) handleHistory(w http.ResponseWriter, req *http.Request) {
	list, err := s.analyses.FindByUser(callerID(req), historyLimit, false)
	if err != nil {
		writeError(500, "Error fetching history", w)
		return
	}

	if list == nil {
		list = []analyses.Analysis{}
	}
	writeJSON(200, list, w)
}

func (s *Serve) handleSaved(w http.ResponseWriter, req *http.Request) {
	list, err := s.analyses.FindByUser(callerID(req), 0, true)
	if err != nil {
		writeError(500, "Error fetching saved analyses", w)
		return
	}

	if list == nil {
		list = []analyses.Analysis{}
	}
	writeJSON(200, list, w)
}

type saveAnalysisReq struct {
	ImageURL string         `json:"imageUrl"`
	Results  vision.Results `json:"results"`
}

func (s *Serve) handleSaveAnalysis(w http.ResponseWriter, req *http.Request) {
	var payload saveAnalysisReq

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil || payload.ImageURL == "" {
		writeError(400, "imageUrl is required", w)
		return
	}

	analysis, err := s.persist(req.Context(), callerID(req), payload.ImageURL, payload.Results, true)
	if err != nil {
		logger.Error().Msgf("failed to save analysis: %v", err)
		writeError(500, "Error saving analysis", w)
		return
	}

	writeJSON(201, analysis, w)
}

func (s *Serve) handleToggleSave(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	analysis, err := s.analyses.ToggleSaved(vars["id"], callerID(req))
	if err != nil {
		writeError(500, "Error updating analysis", w)
		return
	}
	if analysis == nil {
		writeError(404, "Analysis not found", w)
		return
	}

	writeJSON(200, analysis, w)
}
