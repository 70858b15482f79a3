package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/kartik220803/image-analyzer/src/storage"
)

const maxUploadSize = 10 << 20 // 10 MB

var errNoImage = errors.New("No image provided")

// ingestRequest extracts the image bytes from an upload request, which
// carries either a multipart file under "image" or an image URL, and returns
// them together with the durable public URL of the image. Local files are
// always uploaded to object storage; remote URLs are mirrored there so every
// persisted record points at a blob we own.
func (s *Serve) ingestRequest(req *http.Request) ([]byte, string, error) {
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		if err := req.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, "", err
		}

		file, header, err := req.FormFile("image")
		if err == nil {
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return nil, "", err
			}

			imageURL, err := s.uploadBlob(req.Context(), header.Filename, data)
			if err != nil {
				return nil, "", err
			}
			return data, imageURL, nil
		}

		if rawURL := req.FormValue("url"); rawURL != "" {
			return s.ingestURL(req.Context(), rawURL, true)
		}

		return nil, "", errNoImage
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.URL == "" {
		return nil, "", errNoImage
	}

	return s.ingestURL(req.Context(), body.URL, true)
}

// ingestURL downloads the image at rawURL. With mirror set the bytes are
// re-uploaded to object storage and the storage URL is returned; otherwise
// the original URL is passed through unchanged.
func (s *Serve) ingestURL(ctx context.Context, rawURL string, mirror bool) ([]byte, string, error) {
	data, err := fetchRemoteImage(rawURL)
	if err != nil {
		return nil, "", err
	}

	if !mirror {
		return data, rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", err
	}

	imageURL, err := s.uploadBlob(ctx, path.Base(u.Path), data)
	if err != nil {
		return nil, "", err
	}

	return data, imageURL, nil
}

func (s *Serve) uploadBlob(ctx context.Context, filename string, data []byte) (string, error) {
	key := storage.ObjectKey(filename)
	return s.blobs.Upload(ctx, key, data, http.DetectContentType(data))
}

func fetchRemoteImage(rawURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, err
	}

	res, err := http.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to download image at: %s returned status %d", rawURL, res.StatusCode)
	}

	return io.ReadAll(res.Body)
}
