package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

func (db *Database) CreateGlobalConfig(ctx context.Context, doc *model.GlobalConfigDocument) error {
	doc.ID = model.GlobalConfigID

	_, err := db.collection(model.GlobalConfigCollection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     model.GlobalConfigID,
				Message: "global config already exists",
			}
		}
		return err
	}

	return nil
}

func (db *Database) GetGlobalConfig(ctx context.Context) (*model.GlobalConfigDocument, error) {
	filter := bson.M{"_id": model.GlobalConfigID}
	res := db.collection(model.GlobalConfigCollection).FindOne(ctx, filter)

	var doc model.GlobalConfigDocument
	err := res.Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.GlobalConfigID,
				Message: "global config not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}

func (db *Database) UpdateGlobalConfigOwner(ctx context.Context, currentOwner, newOwner authority.Identity) error {
	filter := bson.M{
		"_id":   model.GlobalConfigID,
		"owner": currentOwner,
	}
	update := bson.M{"$set": bson.M{"owner": newOwner}}

	res, err := db.collection(model.GlobalConfigCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     currentOwner.String(),
			Message: "global config with the given owner not found",
		}
	}

	return nil
}
