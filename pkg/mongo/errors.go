package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/apikit/core"
)

var (
	ErrEmptyConnectionURL     = errors.New("empty mongo connection URL, use MONGODB_URL env var")
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)

// IsNotFoundError reports whether err is mongo.ErrNoDocuments.
func IsNotFoundError(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// ClassifyError converts duplicate key write errors into *core.ConstraintError.
// MongoDB has no foreign keys, so nothing else is translated.
func ClassifyError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return core.NewUniqueViolation("").Wrap(err)
	}
	return err
}
