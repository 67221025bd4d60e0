package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

// UpsertVaultStats updates or inserts the vault stats snapshot
func (db *Database) UpsertVaultStats(ctx context.Context, stats *model.VaultStatsDocument) error {
	filter := bson.M{"_id": model.VaultStatsID}
	update := bson.M{
		"$set": bson.M{
			"total_staked":  stats.TotalStaked,
			"vault_balance": stats.VaultBalance,
			"depositors":    stats.Depositors,
			"healthy":       stats.Healthy,
			"last_updated":  stats.LastUpdated,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.VaultStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetVaultStats(ctx context.Context) (*model.VaultStatsDocument, error) {
	filter := bson.M{"_id": model.VaultStatsID}
	res := db.collection(model.VaultStatsCollection).FindOne(ctx, filter)

	var doc model.VaultStatsDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.VaultStatsID,
				Message: "vault stats not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}
