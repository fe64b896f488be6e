package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"prepkart/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	key     string
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.key = aws.ToString(params.Key)
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:    "https://" + aws.ToString(params.Bucket) + ".s3.amazonaws.com/" + f.key + "?X-Amz-Signature=abc",
		Method: "GET",
	}, nil
}

func TestS3Linker_Link(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pdfURL  string
		wantKey string
	}{
		{name: "Bare key", pdfURL: "ebooks/polity.pdf", wantKey: "ebooks/polity.pdf"},
		{name: "Leading slash", pdfURL: "/ebooks/polity.pdf", wantKey: "ebooks/polity.pdf"},
		{name: "S3 URL", pdfURL: "s3://assets/ebooks/polity.pdf", wantKey: "ebooks/polity.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			presigner := &fakePresigner{}
			linker := NewS3LinkerWithPresigner(presigner, "assets", 15*time.Minute, zerolog.Nop())
			linker.(*s3Linker).now = func() time.Time { return now }

			book := &model.Book{ID: uuid.New(), PDFURL: tt.pdfURL}
			link, err := linker.Link(context.Background(), book)

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, presigner.key)
			assert.Equal(t, 15*time.Minute, presigner.expires)
			assert.Equal(t, book.ID, link.BookID)
			assert.Contains(t, link.URL, "X-Amz-Signature")
			require.NotNil(t, link.ExpiresAt)
			assert.Equal(t, now.Add(15*time.Minute), *link.ExpiresAt)
		})
	}
}

func TestS3Linker_NoFile(t *testing.T) {
	linker := NewS3LinkerWithPresigner(&fakePresigner{}, "assets", time.Minute, zerolog.Nop())

	_, err := linker.Link(context.Background(), &model.Book{ID: uuid.New()})

	assert.ErrorIs(t, err, model.ErrEbookUnavailable)
}

func TestS3Linker_PresignError(t *testing.T) {
	linker := NewS3LinkerWithPresigner(&fakePresigner{err: errors.New("no credentials")}, "assets", time.Minute, zerolog.Nop())

	_, err := linker.Link(context.Background(), &model.Book{ID: uuid.New(), PDFURL: "ebooks/a.pdf"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to presign ebook")
}

func TestStaticLinker(t *testing.T) {
	linker := NewStaticLinker()
	book := &model.Book{ID: uuid.New(), PDFURL: "https://cdn.example.com/a.pdf"}

	link, err := linker.Link(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.pdf", link.URL)
	assert.Nil(t, link.ExpiresAt)

	_, err = linker.Link(context.Background(), &model.Book{ID: uuid.New()})
	assert.ErrorIs(t, err, model.ErrEbookUnavailable)
}
