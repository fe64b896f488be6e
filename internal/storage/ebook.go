package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prepkart/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// EbookLinker produces download links for ebook files.
type EbookLinker interface {
	Link(ctx context.Context, book *model.Book) (model.EbookLink, error)
}

// Presigner is the subset of *s3.PresignClient used to sign downloads.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// s3Linker signs time-limited GET requests for objects in the assets bucket.
type s3Linker struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewS3Linker creates a linker using the default AWS credential chain.
func NewS3Linker(ctx context.Context, bucket, region string, ttl time.Duration, logger zerolog.Logger) (EbookLinker, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	presigner := s3.NewPresignClient(s3.NewFromConfig(cfg))

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Dur("ttl", ttl).
		Msg("S3 ebook linker initialized")

	return NewS3LinkerWithPresigner(presigner, bucket, ttl, logger), nil
}

// NewS3LinkerWithPresigner creates a linker with a custom presigner.
func NewS3LinkerWithPresigner(presigner Presigner, bucket string, ttl time.Duration, logger zerolog.Logger) EbookLinker {
	return &s3Linker{
		presigner: presigner,
		bucket:    bucket,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger.With().Str("component", "ebook_linker").Logger(),
	}
}

func (l *s3Linker) Link(ctx context.Context, book *model.Book) (model.EbookLink, error) {
	key := objectKey(book.PDFURL, l.bucket)
	if key == "" {
		return model.EbookLink{}, model.ErrEbookUnavailable
	}

	req, err := l.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(l.ttl))
	if err != nil {
		l.logger.Error().Err(err).
			Str("book_id", book.ID.String()).
			Str("key", key).
			Msg("failed to presign ebook")
		return model.EbookLink{}, fmt.Errorf("failed to presign ebook: %w", err)
	}

	expires := l.now().Add(l.ttl)
	return model.EbookLink{BookID: book.ID, URL: req.URL, ExpiresAt: &expires}, nil
}

// objectKey accepts either a bare key or an s3://bucket/key URL.
func objectKey(ref, bucket string) string {
	ref = strings.TrimPrefix(ref, "s3://"+bucket+"/")
	return strings.TrimPrefix(ref, "/")
}

// staticLinker returns the stored URL unchanged.
type staticLinker struct{}

// NewStaticLinker creates a linker for deployments without asset signing.
func NewStaticLinker() EbookLinker {
	return staticLinker{}
}

func (staticLinker) Link(ctx context.Context, book *model.Book) (model.EbookLink, error) {
	if book.PDFURL == "" {
		return model.EbookLink{}, model.ErrEbookUnavailable
	}
	return model.EbookLink{BookID: book.ID, URL: book.PDFURL}, nil
}
