package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"NovaChat/entity"
)

// FindActiveSession returns the visitor's open session for a tenant, or nil
// when none exists. Unassigned sessions count as open.
func (m *MongoDB) FindActiveSession(ctx context.Context, visitorID, tenantID string) (*entity.ChatSession, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	filter := bson.D{
		{Key: "visitor_id", Value: visitorID},
		{Key: "tenant_id", Value: tenantID},
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{entity.SessionActive, entity.SessionUnassigned}}}},
	}

	var sess entity.ChatSession
	err = collection.FindOne(ctx, filter).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find active session: %w", err)
	}

	return &sess, nil
}

// CreateSession inserts a new session document.
func (m *MongoDB) CreateSession(ctx context.Context, sess entity.ChatSession) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	_, err = collection.InsertOne(ctx, sess)
	if err != nil {
		return fmt.Errorf("mongodb insert session: %w", err)
	}

	return nil
}

// GetSession loads a session by id, nil when not found.
func (m *MongoDB) GetSession(ctx context.Context, sessionID string) (*entity.ChatSession, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	filter := bson.D{{Key: "_id", Value: sessionID}}

	var sess entity.ChatSession
	err = collection.FindOne(ctx, filter).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find session: %w", err)
	}

	return &sess, nil
}

// UpdateSession applies a partial update and returns the fresh document.
func (m *MongoDB) UpdateSession(ctx context.Context, sessionID string, patch entity.SessionPatch) (*entity.ChatSession, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *patch.Status})
		if patch.Status.Concluded() {
			set = append(set, bson.E{Key: "ended_at", Value: time.Now()})
		}
	}
	if patch.AgentID != nil {
		set = append(set, bson.E{Key: "agent_id", Value: *patch.AgentID})
	}
	if patch.AgentName != nil {
		set = append(set, bson.E{Key: "agent_name", Value: *patch.AgentName})
	}

	collection := connection.Database(m.database).Collection(sessionsCollection)
	filter := bson.D{{Key: "_id", Value: sessionID}}
	_, err = collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, fmt.Errorf("mongodb update session: %w", err)
	}

	var sess entity.ChatSession
	err = collection.FindOne(ctx, filter).Decode(&sess)
	if err != nil {
		return nil, fmt.Errorf("mongodb reload session: %w", err)
	}

	return &sess, nil
}

// ExpireStaleSessions marks open sessions older than the cutoff as expired
// and returns their ids.
func (m *MongoDB) ExpireStaleSessions(ctx context.Context, cutoff time.Time) ([]string, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	filter := bson.D{
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{entity.SessionActive, entity.SessionUnassigned}}}},
		{Key: "updated_at", Value: bson.D{{Key: "$lt", Value: cutoff}}},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb find stale sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var stale []entity.ChatSession
	if err = cursor.All(ctx, &stale); err != nil {
		return nil, fmt.Errorf("mongodb decode stale sessions: %w", err)
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(stale))
	for _, sess := range stale {
		ids = append(ids, sess.ID)
	}

	now := time.Now()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: entity.SessionExpired},
		{Key: "updated_at", Value: now},
		{Key: "ended_at", Value: now},
	}}}
	_, err = collection.UpdateMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}, update)
	if err != nil {
		return nil, fmt.Errorf("mongodb expire sessions: %w", err)
	}

	return ids, nil
}
