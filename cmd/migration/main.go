package main

import (
	"context"
	"log"
	"time"

	"vitalwatch-service/internal/app/config"
	"vitalwatch-service/internal/app/drivers/database"
	"vitalwatch-service/internal/pkg/constvars"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Creates the indexes the pipeline depends on. The unique dataId index is
// what makes redelivered submissions idempotent, so this must run before the
// services start.
func main() {
	driverConfig := config.NewDriverConfig()

	mongoDB := database.NewMongoDB(driverConfig)
	db := mongoDB.Database(driverConfig.MongoDB.DbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	patientIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dataId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	createIndexes(ctx, db, constvars.MongoCollectionPatientRecords, patientIndexes)

	notificationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "notificationId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "emailSent", Value: 1}, {Key: "createdAt", Value: 1}},
		},
	}
	createIndexes(ctx, db, constvars.MongoCollectionNotifications, notificationIndexes)

	if err := mongoDB.Disconnect(ctx); err != nil {
		log.Fatalf("Error disconnecting from MongoDB: %v", err)
	}
	log.Println("Migration finished")
}

func createIndexes(ctx context.Context, db *mongo.Database, collection string, indexes []mongo.IndexModel) {
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Fatalf("Error creating indexes on %s: %v", collection, err)
	}
	log.Printf("Created indexes on %s: %v", collection, names)
}
