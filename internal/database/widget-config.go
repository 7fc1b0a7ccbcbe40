package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"NovaChat/entity"
)

// GetConfig returns the widget configuration for a tenant, or nil when the
// tenant has none.
func (m *MongoDB) GetConfig(ctx context.Context, tenantID string) (*entity.WidgetConfig, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(widgetConfigsCollection)
	filter := bson.D{{Key: "tenant_id", Value: tenantID}}

	var conf entity.WidgetConfig
	err = collection.FindOne(ctx, filter).Decode(&conf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find widget config: %w", err)
	}

	return &conf, nil
}

// GetGlobalConfig returns the platform-wide default configuration, or nil
// when none is stored.
func (m *MongoDB) GetGlobalConfig(ctx context.Context) (*entity.WidgetConfig, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(widgetConfigsCollection)
	filter := bson.D{{Key: "global", Value: true}}

	var conf entity.WidgetConfig
	err = collection.FindOne(ctx, filter).Decode(&conf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find global widget config: %w", err)
	}

	return &conf, nil
}

// GetConfigByOrigin resolves a configuration from the embedding page origin.
func (m *MongoDB) GetConfigByOrigin(ctx context.Context, origin string) (*entity.WidgetConfig, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(widgetConfigsCollection)
	filter := bson.D{{Key: "allowed_origins", Value: origin}}

	var conf entity.WidgetConfig
	err = collection.FindOne(ctx, filter).Decode(&conf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find widget config by origin: %w", err)
	}

	return &conf, nil
}

// SaveConfig upserts a tenant configuration. Used by the provisioning tooling,
// not by widgets.
func (m *MongoDB) SaveConfig(ctx context.Context, conf entity.WidgetConfig) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(widgetConfigsCollection)
	filter := bson.D{{Key: "tenant_id", Value: conf.TenantID}}
	update := bson.D{{Key: "$set", Value: conf}}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert widget config: %w", err)
	}

	return nil
}
