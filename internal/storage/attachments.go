package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/skillhubapp/skillhub-api/internal/config"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

const (
	maxImageEdge = 1600
	webpQuality  = 80
)

// AttachmentStore uploads chat attachments to S3. Image uploads are
// normalized first: decoded, downscaled to a bounded edge, re-encoded as
// webp. Everything else is stored untouched.
type AttachmentStore struct {
	client    *s3.Client
	bucket    string
	region    string
	publicURL string
}

// NewAttachmentStore returns nil when no bucket is configured; callers
// treat a nil store as uploads-disabled.
func NewAttachmentStore(cfg *config.Config) *AttachmentStore {
	if cfg.S3Bucket == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &AttachmentStore{
		client:    s3.New(opts),
		bucket:    cfg.S3Bucket,
		region:    cfg.S3Region,
		publicURL: strings.TrimSuffix(cfg.S3PublicURL, "/"),
	}
}

type Uploaded struct {
	URL            string `json:"url"`
	AttachmentType string `json:"attachment_type"`
}

func (s *AttachmentStore) Upload(
	ctx context.Context,
	filename string,
	contentType string,
	data []byte,
) (*Uploaded, error) {

	if s == nil {
		return nil, httperr.ErrBusiness(httperr.CodeUploadsDisabled)
	}

	key, body, outType, attachmentType := s.prepare(filename, contentType, data)

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(outType),
	}); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &Uploaded{
		URL:            s.urlFor(key),
		AttachmentType: attachmentType,
	}, nil
}

func (s *AttachmentStore) prepare(
	filename string,
	contentType string,
	data []byte,
) (key string, body []byte, outType string, attachmentType string) {

	id := uuid.NewString()

	switch contentType {
	case "image/jpeg", "image/png":
		if encoded, err := normalizeImage(data, contentType); err == nil {
			return "attachments/" + id + ".webp", encoded, "image/webp", models.AttachmentImage
		}
		// Undecodable image bytes are stored as sent.
		return "attachments/" + id + filepath.Ext(filename), data, contentType, models.AttachmentImage
	}

	attachmentType = models.AttachmentDocument
	if strings.HasPrefix(contentType, "video/") {
		attachmentType = models.AttachmentVideo
	}

	ext := filepath.Ext(filename)
	return "attachments/" + id + ext, data, contentType, attachmentType
}

func normalizeImage(data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	switch contentType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	img = downscale(img)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageEdge && h <= maxImageEdge {
		return img
	}

	scale := float64(maxImageEdge) / float64(w)
	if h > w {
		scale = float64(maxImageEdge) / float64(h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func (s *AttachmentStore) urlFor(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
