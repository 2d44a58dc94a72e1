package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

const (
	RatingsCollection       = "ratings"
	WeeklyReportsCollection = "weekly_reports"
	ImportLogCollection     = "import_log"
)

type importLogDoc struct {
	Filename   string    `bson:"_id"`
	RowCount   int       `bson:"rowCount"`
	ImportedAt time.Time `bson:"importedAt"`
}

type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore returns a Store backed by the collections of db.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) FindRatings(ctx context.Context, canteenID string, start, end time.Time) ([]models.Rating, error) {
	coll := s.db.Collection(RatingsCollection)

	filter := bson.M{
		"canteenId": canteenID,
		"createdAt": bson.M{"$gte": start, "$lt": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	return s.findRatings(ctx, coll, filter, opts)
}

func (s *mongoStore) ListRecentRatings(ctx context.Context, limit int) ([]models.Rating, error) {
	coll := s.db.Collection(RatingsCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	return s.findRatings(ctx, coll, bson.M{}, opts)
}

func (s *mongoStore) findRatings(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]models.Rating, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	out := []models.Rating{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

func (s *mongoStore) InsertRating(ctx context.Context, r models.Rating) (string, error) {
	coll := s.db.Collection(RatingsCollection)

	r.ID = primitive.NewObjectID().Hex()
	r.CreatedAt = r.CreatedAt.UTC()
	if _, err := coll.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateRating
		}
		return "", err
	}
	return r.ID, nil
}

func (s *mongoStore) UpsertWeeklyReport(ctx context.Context, rep models.WeeklyReport, lastUpdated time.Time) error {
	coll := s.db.Collection(WeeklyReportsCollection)

	rep.TopMeals = nonNilTopMeals(rep.TopMeals)
	rep.Daily = nonNilDaily(rep.Daily)
	doc := models.StoredWeeklyReport{WeeklyReport: rep, LastUpdated: lastUpdated.UTC()}

	filter := bson.M{"canteenId": rep.CanteenID, "weekStart": rep.WeekStart}
	_, err := coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *mongoStore) GetWeeklyReport(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error) {
	coll := s.db.Collection(WeeklyReportsCollection)

	var out models.StoredWeeklyReport
	err := coll.FindOne(ctx, bson.M{"canteenId": canteenID, "weekStart": weekStart}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out.TopMeals = nonNilTopMeals(out.TopMeals)
	out.Daily = nonNilDaily(out.Daily)
	out.LastUpdated = out.LastUpdated.UTC()
	return &out, nil
}

func (s *mongoStore) HasImport(ctx context.Context, filename string) (bool, error) {
	coll := s.db.Collection(ImportLogCollection)

	var doc importLogDoc
	err := coll.FindOne(ctx, bson.M{"_id": filename}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ImportFile runs the replace of a file's ratings and the import log upsert
// in one transaction, so the deployment must be a replica set.
func (s *mongoStore) ImportFile(ctx context.Context, filename string, rs []models.Rating) error {
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		ratings := s.db.Collection(RatingsCollection)
		if _, err := ratings.DeleteMany(sc, bson.M{"sourceFile": filename}); err != nil {
			return nil, fmt.Errorf("clear previous import: %w", err)
		}

		if len(rs) > 0 {
			docs := make([]interface{}, 0, len(rs))
			for _, r := range rs {
				r.ID = primitive.NewObjectID().Hex()
				r.CreatedAt = r.CreatedAt.UTC()
				r.SourceFile = filename
				docs = append(docs, r)
			}
			// Ordered so a duplicate stops the insert at a known position.
			if _, err := ratings.InsertMany(sc, docs, options.InsertMany().SetOrdered(true)); err != nil {
				return nil, err
			}
		}

		doc := importLogDoc{Filename: filename, RowCount: len(rs), ImportedAt: time.Now().UTC()}
		_, err := s.db.Collection(ImportLogCollection).
			ReplaceOne(sc, bson.M{"_id": filename}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return nil, fmt.Errorf("record import: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRating
		}
		return err
	}
	return nil
}

// EnsureIndexes creates the rating and report indexes. Creating an index that
// already exists with the same definition is a no-op on the server.
func (s *mongoStore) EnsureIndexes(ctx context.Context) error {
	ratingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mealId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("mealId_1_createdAt_1"),
		},
		{
			Keys:    bson.D{{Key: "canteenId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("canteenId_1_createdAt_-1"),
		},
		{
			// One rating per user and meal, unless the rating is anonymous.
			Keys: bson.D{{Key: "userHash", Value: 1}, {Key: "mealId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("userHash_1_mealId_1").
				SetPartialFilterExpression(bson.M{
					"userHash":  bson.M{"$exists": true},
					"anonymous": false,
				}),
		},
		{
			Keys:    bson.D{{Key: "comment", Value: "text"}},
			Options: options.Index().SetName("comment_text"),
		},
		{
			Keys: bson.D{{Key: "sourceFile", Value: 1}},
			Options: options.Index().
				SetName("sourceFile_1").
				SetPartialFilterExpression(bson.M{"sourceFile": bson.M{"$exists": true}}),
		},
	}
	if _, err := s.db.Collection(RatingsCollection).Indexes().CreateMany(ctx, ratingIndexes); err != nil {
		return fmt.Errorf("failed to create rating indexes: %w", err)
	}

	reportIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "canteenId", Value: 1}, {Key: "weekStart", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("canteenId_1_weekStart_1"),
	}
	if _, err := s.db.Collection(WeeklyReportsCollection).Indexes().CreateOne(ctx, reportIndex); err != nil {
		return fmt.Errorf("failed to create weekly report indexes: %w", err)
	}

	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
