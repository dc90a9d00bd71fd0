package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx wraps fn in a database transaction. A nil db (service tests
// with fake repos) runs fn directly with a nil tx, which repos treat as
// "use your own handle".
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
