package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"mongoschema/internal/timing"
)

// namespaceNotFound is returned by dropIndexes on a collection that does not exist yet.
const namespaceNotFound = 26

// EnsureIndexes creates the given indexes, first dropping every index except
// _id when dropOldIndexes is set. Creating an index that already exists with
// the same definition is a no-op on the server. It returns the index names.
func EnsureIndexes(ctx context.Context, indexes IndexManager, dropOldIndexes bool, models []mongo.IndexModel) ([]string, error) {
	defer timing.Track(timing.EnsureIndexes)()

	if dropOldIndexes {
		if _, err := indexes.DropAll(ctx); err != nil && !isNamespaceNotFound(err) {
			return nil, fmt.Errorf("failed to drop old indexes: %w", err)
		}
	}
	if len(models) == 0 {
		return nil, nil
	}
	names, err := indexes.CreateMany(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	log.Printf("MongoDB -> EnsureIndexes -> ensured %d indexes: %v", len(names), names)
	return names, nil
}

func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == namespaceNotFound
}
