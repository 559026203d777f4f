// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one.
//
// A standalone mongod has no transactions; there Run executes the same
// function directly so callers keep a single code path:
//
//	err := txn.Run(ctx, db, log, func(ctx context.Context) error {
//	    if _, err := coll.UpdateMany(ctx, unpublishAll, set); err != nil {
//	        return err
//	    }
//	    _, err := coll.UpdateOne(ctx, byID, publish)
//	    return err
//	})
//
// fn may run more than once (driver retries on transient transaction errors
// and the non-transactional fallback), so it must reset any state it
// reports back to the caller.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func is the unit of work. Every database call in it must use the ctx it
// receives, which is a mongo.SessionContext inside a transaction.
type Func func(ctx context.Context) error

// Run executes fn inside a transaction, falling back to a plain call when
// sessions or transactions are unavailable. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		warn(log, "failed to start session, running without transaction", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, "transactions not supported, running without transaction", err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Warn(msg, zap.Error(err))
	}
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions.
//
// Known codes:
//   - 20: IllegalOperation ("Transaction numbers are only allowed on a replica set member or mongos")
//   - 51: IllegalOperation on some older servers
//   - 263: OperationNotSupportedInTransaction
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	// DocumentDB and older servers report this only in the message. Two
	// keyword hits are required so unrelated errors do not trigger a replay.
	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}
