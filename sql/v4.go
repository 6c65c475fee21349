package sql

func migrateToV4(db *DB) error {
	tx := db.MustBegin()
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS seen_asins (
      ` + db.serialPK() + `,
      guild_id TEXT NOT NULL,
      asin TEXT NOT NULL,
      last_seen_at TIMESTAMP NOT NULL,
      UNIQUE (guild_id, asin)
    );
  `)
	tx.MustExec(`UPDATE schema SET version = 4;`)
	return tx.Commit()
}
