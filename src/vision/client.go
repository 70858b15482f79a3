package vision

import (
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/apiv1"
	"google.golang.org/api/option"
	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

const maxResultsPerFeature = 10

// Client wraps the Google Vision image annotator. One instance is created at
// startup and closed on shutdown.
type Client struct {
	ic *vision.ImageAnnotatorClient
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	ic, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{ic: ic}, nil
}

// Annotate runs a single multi-feature annotate call over the image bytes.
func (c *Client) Annotate(ctx context.Context, content []byte) (*pb.AnnotateImageResponse, error) {
	req := &pb.AnnotateImageRequest{
		Image: &pb.Image{Content: content},
		Features: []*pb.Feature{
			{Type: pb.Feature_LABEL_DETECTION, MaxResults: maxResultsPerFeature},
			{Type: pb.Feature_OBJECT_LOCALIZATION, MaxResults: maxResultsPerFeature},
			{Type: pb.Feature_FACE_DETECTION, MaxResults: maxResultsPerFeature},
			{Type: pb.Feature_TEXT_DETECTION, MaxResults: maxResultsPerFeature},
			{Type: pb.Feature_WEB_DETECTION, MaxResults: maxResultsPerFeature},
		},
	}

	res, err := c.ic.AnnotateImage(ctx, req)
	if err != nil {
		return nil, err
	}

	if res.Error != nil {
		return nil, fmt.Errorf("failed to analyze image: %s", res.Error.Message)
	}

	return res, nil
}

func (c *Client) Close() error {
	return c.ic.Close()
}
