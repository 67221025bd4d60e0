package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

// attempts for a first credit that races with another instance creating the
// same ledger
const creditUpsertAttempts = 2

func (db *Database) GetUserLedger(ctx context.Context, owner authority.Identity) (*model.UserLedgerDocument, error) {
	filter := bson.M{"_id": owner}
	res := db.collection(model.UserLedgerCollection).FindOne(ctx, filter)

	var doc model.UserLedgerDocument
	err := res.Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     owner.String(),
				Message: "user ledger not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}

func (db *Database) CreditUserLedger(
	ctx context.Context,
	owner authority.Identity,
	amount uint64,
	updatedTime int64,
) (*model.UserLedgerDocument, error) {
	if amount > MaxAmount {
		return nil, overflowError(owner)
	}

	// the $lte guard keeps the sum within MaxAmount. When an existing ledger
	// fails it, the upsert tries to insert a second document with the same
	// _id and mongo reports a duplicate key.
	filter := bson.M{
		"_id":    owner,
		"amount": bson.M{"$lte": MaxAmount - amount},
	}
	update := bson.M{
		"$inc": bson.M{"amount": amount},
		"$set": bson.M{"updated_time": updatedTime},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	collection := db.collection(model.UserLedgerCollection)
	for attempt := 0; attempt < creditUpsertAttempts; attempt++ {
		var doc model.UserLedgerDocument
		err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
		if err == nil {
			return &doc, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}

		// either the balance would overflow or a concurrent first credit
		// created the ledger between our read and write
		existing, err := db.GetUserLedger(ctx, owner)
		if err != nil {
			return nil, err
		}
		if existing.Amount > MaxAmount-amount {
			return nil, overflowError(owner)
		}
	}

	return nil, fmt.Errorf("failed to credit user ledger %s after %d attempts", owner, creditUpsertAttempts)
}

func (db *Database) DebitUserLedger(
	ctx context.Context,
	owner authority.Identity,
	amount uint64,
	updatedTime int64,
) (*model.UserLedgerDocument, error) {
	if amount > MaxAmount {
		return nil, &InsufficientBalanceError{
			Key:     owner.String(),
			Message: "insufficient balance",
		}
	}

	filter := bson.M{
		"_id":    owner,
		"amount": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"amount": -int64(amount)},
		"$set": bson.M{"updated_time": updatedTime},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc model.UserLedgerDocument
	err := db.collection(model.UserLedgerCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// tell a missing ledger apart from a low balance
			if _, getErr := db.GetUserLedger(ctx, owner); getErr != nil {
				return nil, getErr
			}
			return nil, &InsufficientBalanceError{
				Key:     owner.String(),
				Message: "insufficient balance",
			}
		}
		return nil, err
	}

	return &doc, nil
}

func (db *Database) RevertUserLedgerDebit(
	ctx context.Context,
	owner authority.Identity,
	amount uint64,
	previousUpdatedTime int64,
) error {
	filter := bson.M{"_id": owner}
	update := bson.M{
		"$inc": bson.M{"amount": amount},
		"$set": bson.M{"updated_time": previousUpdatedTime},
	}

	res, err := db.collection(model.UserLedgerCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     owner.String(),
			Message: "user ledger not found",
		}
	}

	return nil
}

func overflowError(owner authority.Identity) error {
	return &AmountOverflowError{
		Key:     owner.String(),
		Message: fmt.Sprintf("credit would exceed the maximum ledger amount %d", MaxAmount),
	}
}
