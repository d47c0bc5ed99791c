package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wuwenbin0122/user-console/internal/models"
)

type userDocument struct {
	models.User `bson:",inline"`
	Seq         int64 `bson:"seq"`
}

// Mongo stores users in a collection ordered by a seq field stamped on insert.
type Mongo struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewMongo(users *mongo.Collection) *Mongo {
	return &Mongo{users: users, now: time.Now}
}

func (m *Mongo) List(ctx context.Context) ([]models.User, error) {
	cursor, err := m.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo list users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.User)
	}
	return users, nil
}

func (m *Mongo) Create(ctx context.Context, user models.User) error {
	doc := userDocument{User: user, Seq: m.now().UnixNano()}
	if _, err := m.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo insert user: %w", err)
	}
	return nil
}

func (m *Mongo) UpdateRole(ctx context.Context, id, role string) (models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := m.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("mongo update role: %w", err)
	}
	return doc.User, nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	res, err := m.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
