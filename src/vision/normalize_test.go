package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

func TestNormalizeEmptyResponse(t *testing.T) {
	results := Normalize(&pb.AnnotateImageResponse{})

	require.NotNil(t, results.Labels)
	require.NotNil(t, results.Objects)
	require.NotNil(t, results.Faces)
	require.NotNil(t, results.WebEntities)

	assert.Len(t, results.Labels, 0)
	assert.Len(t, results.Objects, 0)
	assert.Len(t, results.Faces, 0)
	assert.Len(t, results.WebEntities, 0)
	assert.Equal(t, "", results.Text)
}

func TestNormalizeNilResponse(t *testing.T) {
	results := Normalize(nil)

	require.NotNil(t, results.Labels)
	require.NotNil(t, results.Objects)
	require.NotNil(t, results.Faces)
	require.NotNil(t, results.WebEntities)
	assert.Equal(t, "", results.Text)
}

func TestNormalizeLabels(t *testing.T) {
	res := &pb.AnnotateImageResponse{
		LabelAnnotations: []*pb.EntityAnnotation{
			{Description: "Dog", Score: 0.9753},
			{Description: "Mammal", Score: 0.75},
		},
	}

	results := Normalize(res)

	require.Len(t, results.Labels, 2)
	assert.Equal(t, "Dog", results.Labels[0].Description)
	assert.Equal(t, 97.53, results.Labels[0].Confidence)
	assert.Equal(t, "Mammal", results.Labels[1].Description)
	assert.Equal(t, 75.0, results.Labels[1].Confidence)
}

// API ranking must be preserved, never re-sorted by confidence.
func TestNormalizePreservesOrder(t *testing.T) {
	res := &pb.AnnotateImageResponse{
		LabelAnnotations: []*pb.EntityAnnotation{
			{Description: "first", Score: 0.1},
			{Description: "second", Score: 0.9},
		},
	}

	results := Normalize(res)

	require.Len(t, results.Labels, 2)
	assert.Equal(t, "first", results.Labels[0].Description)
	assert.Equal(t, "second", results.Labels[1].Description)
}

func TestNormalizeObjects(t *testing.T) {
	res := &pb.AnnotateImageResponse{
		LocalizedObjectAnnotations: []*pb.LocalizedObjectAnnotation{
			{Name: "Bicycle", Score: 0.5},
		},
	}

	results := Normalize(res)

	require.Len(t, results.Objects, 1)
	assert.Equal(t, "Bicycle", results.Objects[0].Name)
	assert.Equal(t, 50.0, results.Objects[0].Confidence)
}

func TestNormalizeFaces(t *testing.T) {
	res := &pb.AnnotateImageResponse{
		FaceAnnotations: []*pb.FaceAnnotation{
			{
				JoyLikelihood:      pb.Likelihood_VERY_LIKELY,
				SorrowLikelihood:   pb.Likelihood_VERY_UNLIKELY,
				AngerLikelihood:    pb.Likelihood_UNLIKELY,
				SurpriseLikelihood: pb.Likelihood_POSSIBLE,
			},
		},
	}

	results := Normalize(res)

	require.Len(t, results.Faces, 1)
	face := results.Faces[0]
	assert.Equal(t, "VERY_LIKELY", face.Joy)
	assert.Equal(t, "VERY_UNLIKELY", face.Sorrow)
	assert.Equal(t, "UNLIKELY", face.Anger)
	assert.Equal(t, "POSSIBLE", face.Surprise)
	assert.Equal(t, 100.0, face.Confidence)
}

// Only the first text annotation carries the whole-image transcription.
func TestNormalizeTextTakesFirstAnnotation(t *testing.T) {
	res := &pb.AnnotateImageResponse{
		TextAnnotations: []*pb.EntityAnnotation{
			{Description: "STOP AHEAD"},
			{Description: "STOP"},
			{Description: "AHEAD"},
		},
	}

	results := Normalize(res)

	assert.Equal(t, "STOP AHEAD", results.Text)
}

func TestNormalizeWebEntities(t *testing.T) {
	res := &pb.AnnotateImageResponse{
		WebDetection: &pb.WebDetection{
			WebEntities: []*pb.WebDetection_WebEntity{
				{Description: "Golden Retriever", Score: 0.25},
			},
		},
	}

	results := Normalize(res)

	require.Len(t, results.WebEntities, 1)
	assert.Equal(t, "Golden Retriever", results.WebEntities[0].Description)
	assert.Equal(t, 25.0, results.WebEntities[0].Confidence)
}

func TestPctRoundsToTwoDecimals(t *testing.T) {
	assert.Equal(t, 0.0, pct(0))
	assert.Equal(t, 100.0, pct(1))
	assert.Equal(t, 50.0, pct(0.5))
	assert.Equal(t, 97.53, pct(0.9753))
}
