package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"NovaChat/entity"
)

// SaveMessage inserts a chat message and trims the session history to the
// configured limit.
func (m *MongoDB) SaveMessage(ctx context.Context, msg entity.ChatMessage) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	_, err = collection.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("mongodb insert message: %w", err)
	}

	if m.historyLimit <= 0 {
		return nil
	}

	filter := bson.D{{Key: "session_id", Value: msg.SessionID}}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb count messages: %w", err)
	}

	if count > int64(m.historyLimit) {
		// Find the Nth newest message's created_at, drop everything older
		opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(int64(m.historyLimit - 1))
		var cutoff entity.ChatMessage
		err = collection.FindOne(ctx, filter, opts).Decode(&cutoff)
		if err != nil {
			return fmt.Errorf("mongodb find cutoff message: %w", err)
		}

		deleteFilter := bson.D{
			{Key: "session_id", Value: msg.SessionID},
			{Key: "created_at", Value: bson.D{{Key: "$lt", Value: cutoff.CreatedAt}}},
		}
		_, err = collection.DeleteMany(ctx, deleteFilter)
		if err != nil {
			return fmt.Errorf("mongodb trim messages: %w", err)
		}
	}

	return nil
}

// GetMessages returns a session's history in display order (oldest first).
func (m *MongoDB) GetMessages(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messagesCollection)

	filter := bson.D{{Key: "session_id", Value: sessionID}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []entity.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("mongodb decode messages: %w", err)
	}

	return messages, nil
}
