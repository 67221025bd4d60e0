package db

import (
	"context"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

// CalculateTotalStaked sums the ledger with an aggregation pipeline.
// Amounts are converted to decimal before summing so the total cannot
// overflow int64.
func (db *Database) CalculateTotalStaked(ctx context.Context) (sdkmath.Uint, uint64, error) {
	pipeline := bson.A{
		bson.M{
			"$group": bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": bson.M{"$toDecimal": "$amount"}},
				"depositors": bson.M{"$sum": bson.M{
					"$cond": bson.A{bson.M{"$gt": bson.A{"$amount", 0}}, 1, 0},
				}},
			},
		},
	}

	cursor, err := db.collection(model.UserLedgerCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return sdkmath.ZeroUint(), 0, err
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		// empty collection
		return sdkmath.ZeroUint(), 0, cursor.Err()
	}

	var result struct {
		Total      primitive.Decimal128 `bson:"total"`
		Depositors int64                `bson:"depositors"`
	}
	if err := cursor.Decode(&result); err != nil {
		return sdkmath.ZeroUint(), 0, err
	}

	total, err := decimalToUint(result.Total)
	if err != nil {
		return sdkmath.ZeroUint(), 0, err
	}

	return total, uint64(result.Depositors), nil
}

func decimalToUint(d primitive.Decimal128) (sdkmath.Uint, error) {
	value, exp, err := d.BigInt()
	if err != nil {
		return sdkmath.ZeroUint(), fmt.Errorf("invalid total %s: %w", d, err)
	}
	if value.Sign() < 0 {
		return sdkmath.ZeroUint(), fmt.Errorf("negative total %s", d)
	}
	if exp < 0 {
		return sdkmath.ZeroUint(), fmt.Errorf("fractional total %s", d)
	}
	if exp > 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
		value.Mul(value, scale)
	}

	return sdkmath.NewUintFromBigInt(value), nil
}
