// Package mongo connects to MongoDB with the official v2 driver.
//
// New retries the initial connect and ping, NewWithDatabase returns the
// configured database handle, and Healthcheck exposes a readiness probe.
// ClassifyError turns duplicate key errors into *core.ConstraintError.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
