// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratapage/internal/app/system/txn"
	"github.com/dalemusser/stratapage/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CollectionName is the MongoDB collection for landing-page content.
const CollectionName = "landing_page_content"

var (
	// ErrNotFound is returned when the referenced content document does not exist.
	ErrNotFound = errors.New("content not found")
	// ErrPublished is returned when deleting the currently published document.
	ErrPublished = errors.New("cannot delete published content")
)

// Store provides access to versioned landing-page content.
type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
	now func() time.Time
}

// New creates a new content store.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:  db,
		c:   db.Collection(CollectionName),
		log: logger,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

var byUpdatedDesc = bson.D{{Key: "updated_at", Value: -1}}

// BootstrapDefault returns the published document, creating one from the
// built-in defaults when nothing is published.
func (s *Store) BootstrapDefault(ctx context.Context) (models.ContentDocument, error) {
	published, err := s.GetPublished(ctx)
	if err != nil {
		return models.ContentDocument{}, err
	}
	if published != nil {
		return *published, nil
	}

	now := s.now()
	doc := models.ContentDocument{
		ID:          uuid.NewString(),
		Version:     models.DefaultContentVersion,
		IsPublished: true,
		Sections:    models.DefaultSections(),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   models.ActorSystem,
		UpdatedBy:   models.ActorSystem,
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.ContentDocument{}, err
	}
	s.log.Info("bootstrapped default landing page content", zap.String("content_id", doc.ID))
	return doc, nil
}

// GetPublished returns the most recently updated published document, or nil.
func (s *Store) GetPublished(ctx context.Context) (*models.ContentDocument, error) {
	var doc models.ContentDocument
	opts := options.FindOne().SetSort(byUpdatedDesc)
	err := s.c.FindOne(ctx, bson.M{"is_published": true}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByID returns the document with the given id, or nil.
func (s *Store) GetByID(ctx context.Context, id string) (*models.ContentDocument, error) {
	if id == "" {
		return nil, nil
	}
	var doc models.ContentDocument
	err := s.c.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListAll returns every document, most recently updated first.
func (s *Store) ListAll(ctx context.Context) ([]models.ContentDocument, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(byUpdatedDesc))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.ContentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.ContentDocument{}
	}
	return docs, nil
}

// CreateDraft clones a base document into a new unpublished draft.
//
// The base is the document named by baseID, else the published document,
// else the built-in defaults. A baseID that does not resolve falls through
// to the next source.
func (s *Store) CreateDraft(ctx context.Context, baseID, actor string) (models.ContentDocument, error) {
	base, err := s.GetByID(ctx, baseID)
	if err != nil {
		return models.ContentDocument{}, err
	}
	if base == nil {
		if base, err = s.GetPublished(ctx); err != nil {
			return models.ContentDocument{}, err
		}
	}

	sections := models.DefaultSections()
	if base != nil {
		sections = base.Sections.Clone()
	}

	now := s.now()
	draft := models.ContentDocument{
		ID:          uuid.NewString(),
		Version:     now.Format(models.DraftVersionLayout),
		IsPublished: false,
		Sections:    sections,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}
	if _, err := s.c.InsertOne(ctx, draft); err != nil {
		return models.ContentDocument{}, err
	}

	baseLabel := "defaults"
	if base != nil {
		baseLabel = base.ID
	}
	s.log.Info("created content draft",
		zap.String("content_id", draft.ID),
		zap.String("base", baseLabel),
		zap.String("actor", actor))
	return draft, nil
}

// UpdatePartial replaces the supplied sections of a document and stamps
// updated_at/updated_by, even when upd is empty. A copy field containing
// HTML fails the whole update with a *MarkupError (ErrMarkup).
//
// When the write reports no modification the pre-update document is
// returned as-is; callers must not assume updated_at advanced in that case.
func (s *Store) UpdatePartial(ctx context.Context, id string, upd models.ContentUpdate, actor string) (models.ContentDocument, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.ContentDocument{}, err
	}
	if existing == nil {
		return models.ContentDocument{}, ErrNotFound
	}

	if err := checkCopy(upd); err != nil {
		return models.ContentDocument{}, err
	}

	set := sectionSet(upd)
	set["updated_at"] = s.now()
	set["updated_by"] = actor

	res, err := s.c.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return models.ContentDocument{}, err
	}
	if res.ModifiedCount == 0 {
		return *existing, nil
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return models.ContentDocument{}, err
	}
	if updated == nil {
		return models.ContentDocument{}, ErrNotFound
	}
	return *updated, nil
}

// Publish makes id the only published document.
//
// Every published document is first unpublished, then the target is
// published. Both writes share a transaction where the deployment supports
// one. Returns false when the target does not exist; the unpublish step is
// kept in that case, leaving nothing published.
func (s *Store) Publish(ctx context.Context, id, actor string) (bool, error) {
	var published bool
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		published = false
		if _, err := s.c.UpdateMany(ctx,
			bson.M{"is_published": true},
			bson.M{"$set": bson.M{"is_published": false}},
		); err != nil {
			return err
		}
		res, err := s.c.UpdateOne(ctx,
			bson.M{"id": id},
			bson.M{"$set": bson.M{
				"is_published": true,
				"updated_at":   s.now(),
				"updated_by":   actor,
			}},
		)
		if err != nil {
			return err
		}
		published = res.ModifiedCount == 1
		return nil
	})
	if err != nil {
		return false, err
	}

	if published {
		s.log.Info("published content", zap.String("content_id", id), zap.String("actor", actor))
	} else {
		s.log.Warn("publish target not found; no content is published", zap.String("content_id", id))
	}
	return published, nil
}

// Delete removes an unpublished document. Returns ErrPublished for the
// published document and false when id does not exist.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}
	if doc.IsPublished {
		return false, ErrPublished
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"id": id, "is_published": false})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Summary returns version counts and the published document's redacted info.
func (s *Store) Summary(ctx context.Context) (models.ContentSummary, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.ContentSummary{}, err
	}
	drafts, err := s.c.CountDocuments(ctx, bson.M{"is_published": false})
	if err != nil {
		return models.ContentSummary{}, err
	}
	published, err := s.GetPublished(ctx)
	if err != nil {
		return models.ContentSummary{}, err
	}

	summary := models.ContentSummary{
		TotalVersions: total,
		DraftCount:    drafts,
	}
	if published != nil {
		summary.PublishedVersion = &models.PublishedVersionInfo{
			ID:        published.ID,
			Version:   published.Version,
			UpdatedAt: published.UpdatedAt,
			UpdatedBy: published.UpdatedBy,
		}
	}
	return summary, nil
}

// CountPublished returns how many documents are marked published.
// More than one only occurs transiently under concurrent publishes.
func (s *Store) CountPublished(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_published": true})
}

// sectionSet builds the $set document for the supplied sections.
func sectionSet(upd models.ContentUpdate) bson.M {
	set := bson.M{}
	if upd.Hero != nil {
		set["hero"] = *upd.Hero
	}
	if upd.About != nil {
		set["about"] = *upd.About
	}
	if upd.Social != nil {
		set["social"] = *upd.Social
	}
	if upd.Expectations != nil {
		set["expectations"] = *upd.Expectations
	}
	if upd.ContactPreview != nil {
		set["contact_preview"] = *upd.ContactPreview
	}
	if upd.Footer != nil {
		set["footer"] = *upd.Footer
	}
	if upd.ContactInfo != nil {
		set["contact_info"] = *upd.ContactInfo
	}
	if upd.StudioAddress != nil {
		set["studio_address"] = *upd.StudioAddress
	}
	if upd.SocialLinks != nil {
		set["social_links"] = *upd.SocialLinks
	}
	return set
}
