package sql

func migrateToV2(db *DB) error {
	tx := db.MustBegin()
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS watched_channels (
      ` + db.serialPK() + `,
      guild_id TEXT NOT NULL,
      channel_id TEXT NOT NULL UNIQUE
    );
  `)
	tx.MustExec(`UPDATE schema SET version = 2;`)
	return tx.Commit()
}
