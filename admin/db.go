package admin

import (
	"log"

	"leadfilter/config"
	apsql "leadfilter/sql"
)

type transactional func(tx *apsql.Tx) error

// performInTransaction runs method in a transaction and returns the
// method's error unwrapped, so callers can translate constraint errors.
func performInTransaction(db *apsql.DB, method transactional) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	methodErr := method(tx)
	if methodErr != nil {
		err = tx.Rollback()
		if err != nil {
			log.Printf("%s Error rolling back transaction!", config.System)
		}
		return methodErr
	}

	return tx.Commit()
}
