package services

import (
	"errors"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const txRetries = 3

// withUser runs fn inside a transaction holding a row lock on the user, so
// every point/counter/achievement mutation for one user is serialized across
// server instances. Serialization and deadlock failures retry the whole
// read-evaluate-write cycle rather than partially applying it.
func withUser(userID uint, fn func(tx *gorm.DB, user *models.User) error) error {
	var err error
	for attempt := 0; attempt < txRetries; attempt++ {
		err = db.DB.Transaction(func(tx *gorm.DB) error {
			q := tx
			if tx.Dialector.Name() == "postgres" {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var user models.User
			if err := q.First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return fn(tx, &user)
		})
		if err == nil || !retryableTxError(err) {
			return err
		}
	}
	return err
}

// retryableTxError reports postgres serialization failures and deadlocks.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
