package sql

func migrateToV5(db *DB) error {
	tx := db.MustBegin()
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS leads (
      ` + db.serialPK() + `,
      guild_id TEXT NOT NULL,
      channel_id TEXT NOT NULL,
      message_id TEXT NOT NULL,
      roi REAL NOT NULL,
      asins TEXT NOT NULL,
      summary TEXT NOT NULL,
      jump_url TEXT NOT NULL,
      created_at TIMESTAMP NOT NULL
    );
  `)
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS filter_scripts (
      ` + db.serialPK() + `,
      guild_id TEXT NOT NULL UNIQUE,
      script TEXT NOT NULL,
      enabled BOOLEAN NOT NULL
    );
  `)
	tx.MustExec(`
    CREATE TABLE IF NOT EXISTS stats (
      ` + db.serialPK() + `,
      node TEXT NOT NULL,
      timestamp TIMESTAMP NOT NULL,
      name TEXT NOT NULL,
      value INTEGER NOT NULL
    );
  `)
	tx.MustExec(`UPDATE schema SET version = 5;`)
	return tx.Commit()
}
