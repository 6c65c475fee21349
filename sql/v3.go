package sql

func migrateToV3(db *DB) error {
	tx := db.MustBegin()
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS channel_links (
      ` + db.serialPK() + `,
      guild_id TEXT NOT NULL,
      source_channel_id TEXT NOT NULL UNIQUE,
      destination_channel_id TEXT NOT NULL
    );
  `)
	tx.MustExec(`UPDATE schema SET version = 3;`)
	return tx.Commit()
}
