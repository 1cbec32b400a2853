package file

import (
	"context"
	"errors"

	"files-manager/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FileRepository interface {
	Insert(ctx context.Context, file *File) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*File, error)
	// FindOwned matches on both id and owner; a foreign record is ErrNotFound.
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*File, error)
	// FindPage lists userID's direct children of parent in natural order.
	FindPage(ctx context.Context, userID primitive.ObjectID, parent ParentRef, skip, limit int64) ([]*File, error)
	ExistsByLocalPath(ctx context.Context, path string) (bool, error)
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type FileRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFileRepository(mongodb *database.MongodbDB) FileRepository {
	return &FileRepositoryImpl{
		Collection: mongodb.DB.Collection("files"),
	}
}

func (r *FileRepositoryImpl) Insert(ctx context.Context, file *File) error {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, file)
	return err
}

func (r *FileRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*File, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *FileRepositoryImpl) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*File, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *FileRepositoryImpl) FindPage(ctx context.Context, userID primitive.ObjectID, parent ParentRef, skip, limit int64) ([]*File, error) {
	filter := bson.M{
		"userId":   userID,
		"parentId": parentFilter(parent),
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	files := make([]*File, 0, limit)
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// parentFilter also matches root entries written with integer 0.
func parentFilter(parent ParentRef) interface{} {
	if parent.IsRoot() {
		return bson.M{"$in": bson.A{RootSentinel, 0}}
	}
	return parent
}

func (r *FileRepositoryImpl) ExistsByLocalPath(ctx context.Context, path string) (bool, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.M{"localPath": path}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FileRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

func (r *FileRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}}},
		{Keys: bson.D{{Key: "localPath", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

func (r *FileRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*File, error) {
	var file File
	err := r.Collection.FindOne(ctx, filter).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}
