package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"intervue/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database
var SessionCollection *mongo.Collection

// extractDBName parses the database name from the URI, defaulting to "intervue"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "intervue"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "intervue"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	SessionCollection = MongoDatabase.Collection("interview_sessions")
	return nil
}

// Enabled reports whether session persistence is configured
func Enabled() bool {
	return SessionCollection != nil
}

// SaveInterviewSession saves one analyzed session to MongoDB
func SaveInterviewSession(session models.InterviewSession) error {
	if SessionCollection == nil {
		return nil
	}
	_, err := SessionCollection.InsertOne(context.Background(), session)
	if err != nil {
		log.Printf("Error saving session: %v", err)
		return err
	}
	return nil
}

// GetRecentSessions retrieves up to limit most recently analyzed sessions
func GetRecentSessions(limit int64) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	if SessionCollection == nil {
		return sessions, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := SessionCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
