package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"NovaChat/entity"
)

// UpsertVisitorMetadata stores the latest engagement snapshot for a session.
func (m *MongoDB) UpsertVisitorMetadata(ctx context.Context, sessionID string, meta entity.VisitorMetadata) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(visitorMetaCollection)
	filter := bson.D{{Key: "session_id", Value: sessionID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "session_id", Value: sessionID},
		{Key: "scroll_depth", Value: meta.ScrollDepth},
		{Key: "click_count", Value: meta.ClickCount},
		{Key: "updated_at", Value: time.Now()},
	}}}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert visitor metadata: %w", err)
	}

	return nil
}
