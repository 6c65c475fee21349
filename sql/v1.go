package sql

// serialPK returns the driver's flavor of an auto-incrementing primary key.
// The migrations inline their DDL, scoped per driver where the drivers
// disagree.
func (db *DB) serialPK() string {
	if db.Driver == Postgres {
		return "id SERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

func migrateToV1(db *DB) error {
	tx := db.MustBegin()
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS guild_settings (
      ` + db.serialPK() + `,
      guild_id TEXT NOT NULL UNIQUE,
      min_roi REAL NOT NULL,
      dm_enabled BOOLEAN NOT NULL,
      allow_missing_eligibility BOOLEAN NOT NULL,
      dedupe_hours REAL NOT NULL,
      log_channel_id TEXT
    );
  `)
	tx.MustExec(`UPDATE schema SET version = 1;`)
	return tx.Commit()
}
