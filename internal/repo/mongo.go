package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"filevault-backend/internal/common"
	"filevault-backend/internal/config"
	"filevault-backend/internal/models"
)

// MongoStore wraps the Mongo client and hands out the collection-backed
// repositories. Callers own the lifecycle: NewMongoStore connects,
// Close disconnects.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, cfg *config.MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *MongoStore) Users() Users {
	return &mongoUsers{col: s.db.Collection("users")}
}

func (s *MongoStore) Files() Files {
	return &mongoFiles{col: s.db.Collection("files")}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
	}
}

type fileDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  string             `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

func (d *fileDoc) toModel() *models.FileEntry {
	return &models.FileEntry{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Name:      d.Name,
		Type:      models.FileType(d.Type),
		IsPublic:  d.IsPublic,
		ParentID:  d.ParentID,
		LocalPath: d.LocalPath,
	}
}

type mongoUsers struct {
	col *mongo.Collection
}

func (r *mongoUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	result, err := r.col.InsertOne(ctx, userDoc{
		Email:    user.Email,
		Password: user.PasswordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	created := *user
	created.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *mongoUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var doc userDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoUsers) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

type mongoFiles struct {
	col *mongo.Collection
}

func (r *mongoFiles) Create(ctx context.Context, entry *models.FileEntry) (*models.FileEntry, error) {
	ownerID, err := primitive.ObjectIDFromHex(entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	result, err := r.col.InsertOne(ctx, fileDoc{
		UserID:    ownerID,
		Name:      entry.Name,
		Type:      string(entry.Type),
		IsPublic:  entry.IsPublic,
		ParentID:  entry.ParentID,
		LocalPath: entry.LocalPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}

	created := *entry
	created.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *mongoFiles) GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var doc fileDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "userId": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoFiles) GetByID(ctx context.Context, id string) (*models.FileEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var doc fileDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoFiles) List(ctx context.Context, userID, parentID string, page int) ([]models.FileEntry, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.FileEntry{}, nil
	}

	filter := bson.M{"userId": ownerID}
	if parentID != "" {
		filter["parentId"] = parentID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(page) * PageSize).
		SetLimit(PageSize)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.FileEntry{}
	for cursor.Next(ctx) {
		var doc fileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode file: %w", err)
		}
		entries = append(entries, *doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return entries, nil
}

func (r *mongoFiles) SetPublic(ctx context.Context, id, userID string, isPublic bool) (*models.FileEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var doc fileDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$set": bson.M{"isPublic": isPublic}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update file: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoFiles) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
