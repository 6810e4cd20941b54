package notifications

import (
	"context"
	"time"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationMongoRepository struct {
	Collection *mongo.Collection
}

func NewNotificationMongoRepository(db *mongo.Client, dbName string) NotificationRepository {
	return &NotificationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionNotifications),
	}
}

func (r *NotificationMongoRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	_, err := r.Collection.InsertOne(ctx, notification)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

// FindFailed returns the oldest undelivered notifications first so the retry
// sweep drains the backlog in arrival order.
func (r *NotificationMongoRepository) FindFailed(ctx context.Context, limit int64) ([]models.Notification, error) {
	filter := bson.M{
		"emailSent":  false,
		"emailError": bson.M{"$exists": true, "$ne": ""},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	failed := make([]models.Notification, 0)
	if err := cursor.All(ctx, &failed); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return failed, nil
}

func (r *NotificationMongoRepository) MarkDeliveryOutcome(ctx context.Context, notificationID string, sent bool, sentAt *time.Time, emailError string) error {
	var update bson.M
	if sent {
		update = bson.M{
			"$set":   bson.M{"emailSent": true, "emailSentAt": sentAt},
			"$unset": bson.M{"emailError": ""},
		}
	} else {
		update = bson.M{
			"$set": bson.M{"emailSent": false, "emailError": emailError},
		}
	}

	_, err := r.Collection.UpdateOne(ctx, bson.M{"notificationId": notificationID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *NotificationMongoRepository) FindByUserID(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return notifications, nil
}

func (r *NotificationMongoRepository) CountByOutcome(ctx context.Context) (int64, int64, error) {
	sent, err := r.Collection.CountDocuments(ctx, bson.M{"emailSent": true})
	if err != nil {
		return 0, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	failed, err := r.Collection.CountDocuments(ctx, bson.M{"emailSent": false})
	if err != nil {
		return 0, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return sent, failed, nil
}

func (r *NotificationMongoRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
