package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func health(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(200)
	w.Write([]byte("All Good ☮️"))
}

func (s *Serve) router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", health).Methods("GET", "OPTIONS")

	r.HandleFunc("/register", s.handleRegister).Methods("POST", "OPTIONS")
	r.HandleFunc("/login", s.handleLogin).Methods("POST", "OPTIONS")
	r.HandleFunc("/check-username/{username}", s.handleCheckUsername).Methods("GET", "OPTIONS")
	r.HandleFunc("/update-username", s.strictAuth(s.handleUpdateUsername)).Methods("POST", "OPTIONS")
	r.HandleFunc("/update-password", s.strictAuth(s.handleUpdatePassword)).Methods("POST", "OPTIONS")

	r.HandleFunc("/upload", s.strictAuth(s.handleUpload)).Methods("POST", "OPTIONS")
	r.HandleFunc("/analyze-anonymous", s.handleAnalyzeAnonymous).Methods("POST", "OPTIONS")
	r.HandleFunc("/analyze-url", s.softAuth(s.handleAnalyzeURL)).Methods("POST", "OPTIONS")

	r.HandleFunc("/history", s.strictAuth(s.handleHistory)).Methods("GET", "OPTIONS")
	r.HandleFunc("/saved", s.strictAuth(s.handleSaved)).Methods("GET", "OPTIONS")
	r.HandleFunc("/save-analysis", s.strictAuth(s.handleSaveAnalysis)).Methods("POST", "OPTIONS")
	r.HandleFunc("/toggle-save/{id}", s.strictAuth(s.handleToggleSave)).Methods("POST", "OPTIONS")

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	})

	return c.Handler(r)
}

// Init exposes the API server on the given port and blocks until the process
// is interrupted, then shuts down gracefully.
func (s *Serve) Init(port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Msgf("Web server now listening on %s", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
