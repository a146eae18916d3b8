package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

const artistsCollection = "artist_profiles"

type MongoArtistRepository struct {
	coll *mongo.Collection
}

func NewArtistRepository(db *mongo.Database) *MongoArtistRepository {
	return &MongoArtistRepository{coll: db.Collection(artistsCollection)}
}

type mongoArtistProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Bio         string             `bson:"bio,omitempty"`
	Genres      []string           `bson:"genres,omitempty"`
	Instruments []string           `bson:"instruments,omitempty"`
	Location    string             `bson:"location,omitempty"`
	Website     string             `bson:"website,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *MongoArtistRepository) Create(ctx context.Context, profile *domain.ArtistProfile) (*domain.ArtistProfile, error) {
	doc := mongoArtistProfile{
		UserID:      profile.UserID,
		Bio:         profile.Bio,
		Genres:      profile.Genres,
		Instruments: profile.Instruments,
		Location:    profile.Location,
		Website:     profile.Website,
		CreatedAt:   profile.CreatedAt.Unix(),
		UpdatedAt:   profile.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert artist profile: %w", err)
	}

	created := *profile
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoArtistRepository) FindByUserID(ctx context.Context, userID string) (*domain.ArtistProfile, error) {
	var mp mongoArtistProfile
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtistNotFound
		}
		return nil, fmt.Errorf("find artist profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoArtistRepository) Update(ctx context.Context, userID string, fields ports.UpdateArtistFields) (*domain.ArtistProfile, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if fields.Bio != nil {
		set["bio"] = *fields.Bio
	}
	if fields.Genres != nil {
		set["genres"] = fields.Genres
	}
	if fields.Instruments != nil {
		set["instruments"] = fields.Instruments
	}
	if fields.Location != nil {
		set["location"] = *fields.Location
	}
	if fields.Website != nil {
		set["website"] = *fields.Website
	}

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
		findOneAndUpdateReturnAfter(),
	)
	var mp mongoArtistProfile
	if err := res.Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtistNotFound
		}
		return nil, fmt.Errorf("update artist profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoArtistRepository) List(ctx context.Context, filter ports.ListArtistsFilter) ([]*domain.ArtistProfile, int64, error) {
	query := bson.M{}
	if filter.Genre != "" {
		query["genres"] = filter.Genre
	}
	if filter.Location != "" {
		query["location"] = filter.Location
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count artist profiles: %w", err)
	}

	cur, err := r.coll.Find(ctx, query, pageOptions(filter.Page, filter.Limit, "created_at"))
	if err != nil {
		return nil, 0, fmt.Errorf("list artist profiles: %w", err)
	}
	defer cur.Close(ctx)

	var profiles []*domain.ArtistProfile
	for cur.Next(ctx) {
		var mp mongoArtistProfile
		if err := cur.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode artist profile: %w", err)
		}
		profiles = append(profiles, mp.toDomain())
	}
	return profiles, total, cur.Err()
}

func (mp *mongoArtistProfile) toDomain() *domain.ArtistProfile {
	return &domain.ArtistProfile{
		ID:          mp.ID.Hex(),
		UserID:      mp.UserID,
		Bio:         mp.Bio,
		Genres:      mp.Genres,
		Instruments: mp.Instruments,
		Location:    mp.Location,
		Website:     mp.Website,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}
}
