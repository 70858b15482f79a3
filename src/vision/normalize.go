package vision

import (
	"math"

	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

// Face detection carries no numeric score, so normalized faces report a
// fixed confidence.
const faceConfidence = 100

type Label struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

type Object struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type Face struct {
	Joy        string  `json:"joy"`
	Sorrow     string  `json:"sorrow"`
	Anger      string  `json:"anger"`
	Surprise   string  `json:"surprise"`
	Confidence float64 `json:"confidence"`
}

type WebEntity struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Results is the display-ready shape of one annotate call. Every sequence is
// present even when the feature was absent from the response, so clients
// never see a null field.
type Results struct {
	Labels      []Label     `json:"labels"`
	Objects     []Object    `json:"objects"`
	Faces       []Face      `json:"faces"`
	Text        string      `json:"text"`
	WebEntities []WebEntity `json:"webEntities"`
}

// Normalize reshapes a raw annotate response into Results. Annotation order
// is preserved as returned by the API; nothing is re-ranked, truncated or
// deduplicated here.
func Normalize(res *pb.AnnotateImageResponse) Results {
	results := Results{
		Labels:      []Label{},
		Objects:     []Object{},
		Faces:       []Face{},
		WebEntities: []WebEntity{},
	}

	if res == nil {
		return results
	}

	for _, label := range res.LabelAnnotations {
		results.Labels = append(results.Labels, Label{
			Description: label.Description,
			Confidence:  pct(label.Score),
		})
	}

	for _, obj := range res.LocalizedObjectAnnotations {
		results.Objects = append(results.Objects, Object{
			Name:       obj.Name,
			Confidence: pct(obj.Score),
		})
	}

	for _, face := range res.FaceAnnotations {
		results.Faces = append(results.Faces, Face{
			Joy:        face.JoyLikelihood.String(),
			Sorrow:     face.SorrowLikelihood.String(),
			Anger:      face.AngerLikelihood.String(),
			Surprise:   face.SurpriseLikelihood.String(),
			Confidence: faceConfidence,
		})
	}

	// The first text annotation is the whole-image transcription; the rest
	// are per-word boxes.
	if len(res.TextAnnotations) > 0 {
		results.Text = res.TextAnnotations[0].Description
	}

	if res.WebDetection != nil {
		for _, entity := range res.WebDetection.WebEntities {
			results.WebEntities = append(results.WebEntities, WebEntity{
				Description: entity.Description,
				Confidence:  pct(entity.Score),
			})
		}
	}

	return results
}

// pct converts a [0,1] score to a percentage with two-decimal precision.
func pct(score float32) float64 {
	return math.Round(float64(score)*10000) / 100
}
