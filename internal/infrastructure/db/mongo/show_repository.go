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

const (
	showsCollection  = "shows"
	venuesCollection = "venues"
)

type MongoShowRepository struct {
	coll *mongo.Collection
}

func NewShowRepository(db *mongo.Database) *MongoShowRepository {
	return &MongoShowRepository{coll: db.Collection(showsCollection)}
}

type mongoShow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	VenueID     string             `bson:"venue_id"`
	PromoterID  string             `bson:"promoter_id"`
	ArtistIDs   []string           `bson:"artist_ids"`
	StartsAt    int64              `bson:"starts_at"`
	DoorPrice   float64            `bson:"door_price"`
	Currency    string             `bson:"currency"`
	Status      string             `bson:"status"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *MongoShowRepository) Create(ctx context.Context, show *domain.Show) (*domain.Show, error) {
	doc := mongoShow{
		Title:       show.Title,
		Description: show.Description,
		VenueID:     show.VenueID,
		PromoterID:  show.PromoterID,
		ArtistIDs:   show.ArtistIDs,
		StartsAt:    show.StartsAt.Unix(),
		DoorPrice:   show.DoorPrice,
		Currency:    show.Currency,
		Status:      string(show.Status),
		CreatedAt:   show.CreatedAt.Unix(),
		UpdatedAt:   show.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert show: %w", err)
	}

	created := *show
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoShowRepository) FindByID(ctx context.Context, id string) (*domain.Show, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrShowNotFound
	}

	var ms mongoShow
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShowNotFound
		}
		return nil, fmt.Errorf("find show: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *MongoShowRepository) UpdateStatus(ctx context.Context, id string, status domain.ShowStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrShowNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"status":     string(status),
			"updated_at": time.Now().UTC().Unix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update show status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrShowNotFound
	}
	return nil
}

func (r *MongoShowRepository) List(ctx context.Context, filter ports.ListShowsFilter) ([]*domain.Show, int64, error) {
	query := bson.M{}
	if filter.VenueID != "" {
		query["venue_id"] = filter.VenueID
	}
	if filter.PromoterID != "" {
		query["promoter_id"] = filter.PromoterID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	dateRange := bson.M{}
	if !filter.DateFrom.IsZero() {
		dateRange["$gte"] = filter.DateFrom.Unix()
	}
	if !filter.DateTo.IsZero() {
		dateRange["$lte"] = filter.DateTo.Unix()
	}
	if len(dateRange) > 0 {
		query["starts_at"] = dateRange
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count shows: %w", err)
	}

	cur, err := r.coll.Find(ctx, query, pageOptions(filter.Page, filter.Limit, "starts_at"))
	if err != nil {
		return nil, 0, fmt.Errorf("list shows: %w", err)
	}
	defer cur.Close(ctx)

	var shows []*domain.Show
	for cur.Next(ctx) {
		var ms mongoShow
		if err := cur.Decode(&ms); err != nil {
			return nil, 0, fmt.Errorf("decode show: %w", err)
		}
		shows = append(shows, ms.toDomain())
	}
	return shows, total, cur.Err()
}

func (ms *mongoShow) toDomain() *domain.Show {
	return &domain.Show{
		ID:          ms.ID.Hex(),
		Title:       ms.Title,
		Description: ms.Description,
		VenueID:     ms.VenueID,
		PromoterID:  ms.PromoterID,
		ArtistIDs:   ms.ArtistIDs,
		StartsAt:    unixToTime(ms.StartsAt),
		DoorPrice:   ms.DoorPrice,
		Currency:    ms.Currency,
		Status:      domain.ShowStatus(ms.Status),
		CreatedAt:   unixToTime(ms.CreatedAt),
		UpdatedAt:   unixToTime(ms.UpdatedAt),
	}
}

type MongoVenueRepository struct {
	coll *mongo.Collection
}

func NewVenueRepository(db *mongo.Database) *MongoVenueRepository {
	return &MongoVenueRepository{coll: db.Collection(venuesCollection)}
}

type mongoVenue struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Address   string             `bson:"address"`
	City      string             `bson:"city"`
	Capacity  int                `bson:"capacity"`
	OwnerID   string             `bson:"owner_id"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoVenueRepository) Create(ctx context.Context, venue *domain.Venue) (*domain.Venue, error) {
	doc := mongoVenue{
		Name:      venue.Name,
		Address:   venue.Address,
		City:      venue.City,
		Capacity:  venue.Capacity,
		OwnerID:   venue.OwnerID,
		CreatedAt: venue.CreatedAt.Unix(),
		UpdatedAt: venue.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert venue: %w", err)
	}

	created := *venue
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoVenueRepository) FindByID(ctx context.Context, id string) (*domain.Venue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVenueNotFound
	}

	var mv mongoVenue
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("find venue: %w", err)
	}
	return mv.toDomain(), nil
}

func (r *MongoVenueRepository) List(ctx context.Context, city string, page, limit int) ([]*domain.Venue, int64, error) {
	query := bson.M{}
	if city != "" {
		query["city"] = city
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	cur, err := r.coll.Find(ctx, query, pageOptions(page, limit, "created_at"))
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	defer cur.Close(ctx)

	var venues []*domain.Venue
	for cur.Next(ctx) {
		var mv mongoVenue
		if err := cur.Decode(&mv); err != nil {
			return nil, 0, fmt.Errorf("decode venue: %w", err)
		}
		venues = append(venues, mv.toDomain())
	}
	return venues, total, cur.Err()
}

func (mv *mongoVenue) toDomain() *domain.Venue {
	return &domain.Venue{
		ID:        mv.ID.Hex(),
		Name:      mv.Name,
		Address:   mv.Address,
		City:      mv.City,
		Capacity:  mv.Capacity,
		OwnerID:   mv.OwnerID,
		CreatedAt: unixToTime(mv.CreatedAt),
		UpdatedAt: unixToTime(mv.UpdatedAt),
	}
}
