package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/kartik220803/image-analyzer/src/analyses"
	"github.com/kartik220803/image-analyzer/src/users"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

var logger zerolog.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

// Annotator runs one multi-feature vision call over raw image bytes.
type Annotator interface {
	Annotate(ctx context.Context, content []byte) (*pb.AnnotateImageResponse, error)
}

// BlobStore persists image blobs and resolves their public URLs.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Serve is an instance of the image analyzer API server. All external
// clients are injected once at startup.
type Serve struct {
	users     users.Store
	analyses  analyses.Store
	blobs     BlobStore
	annotator Annotator
	retention *analyses.Policy
	jwtSecret []byte
}

func NewServe(
	userStore users.Store,
	analysisStore analyses.Store,
	blobs BlobStore,
	annotator Annotator,
	retention *analyses.Policy,
	jwtSecret []byte,
) *Serve {
	return &Serve{
		users:     userStore,
		analyses:  analysisStore,
		blobs:     blobs,
		annotator: annotator,
		retention: retention,
		jwtSecret: jwtSecret,
	}
}

// ErrorRes is a JSON response containing an error message from the API.
type ErrorRes struct {
	Error string `json:"error"`
}

func writeError(code int, message string, w http.ResponseWriter) {
	logger.Info().Msg(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := ErrorRes{
		Error: message,
	}
	json.NewEncoder(w).Encode(err)
}

func writeJSON(code int, body interface{}, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
