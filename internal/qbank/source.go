package qbank

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter selects question bank documents.
type Filter struct {
	TaxonomyID string
	Limit      int64
}

// Source reads question bank documents.
type Source interface {
	Documents(ctx context.Context, f Filter) ([]Document, error)
}

// Connect opens a MongoDB client and checks the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// mongoSource reads documents from one collection.
type mongoSource struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewMongoSource creates a source over coll.
func NewMongoSource(coll *mongo.Collection, logger zerolog.Logger) Source {
	return &mongoSource{
		coll:   coll,
		logger: logger.With().Str("component", "qbank_source").Logger(),
	}
}

// filterDocument builds the query for f.
func filterDocument(f Filter) bson.M {
	q := bson.M{}
	if f.TaxonomyID != "" {
		q["taxonomyId"] = f.TaxonomyID
	}
	return q
}

// findOptions sorts by question id and keeps the requested limit.
func findOptions(f Filter) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "questionId", Value: 1}, {Key: "version", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return opts
}

func (s *mongoSource) Documents(ctx context.Context, f Filter) ([]Document, error) {
	cursor, err := s.coll.Find(ctx, filterDocument(f), findOptions(f))
	if err != nil {
		s.logger.Error().Err(err).Str("taxonomy_id", f.TaxonomyID).Msg("failed to query question bank")
		return nil, fmt.Errorf("failed to query question bank: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	seen := make(map[string]bool)
	for cursor.Next(ctx) {
		var doc Document
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Warn().Err(err).Msg("skipping undecodable question document")
			continue
		}
		// Newest version first; older versions of the same question are skipped.
		if doc.QuestionID != "" {
			if seen[doc.QuestionID] {
				continue
			}
			seen[doc.QuestionID] = true
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question bank: %w", err)
	}

	s.logger.Info().Int("count", len(docs)).Str("taxonomy_id", f.TaxonomyID).Msg("question documents fetched")
	return docs, nil
}
