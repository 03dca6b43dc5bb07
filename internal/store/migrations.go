package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// The funcionarios table is owned by the payroll system; the minimal shape
// here exists so the list join and local development work standalone.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS funcionarios (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	nome       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS holerites (
	id                TEXT PRIMARY KEY,
	email_uid         TEXT NOT NULL UNIQUE,
	sender            TEXT NOT NULL DEFAULT '',
	subject           TEXT NOT NULL DEFAULT '',
	message_date      DATETIME,
	original_filename TEXT NOT NULL DEFAULT '',
	file_path         TEXT NOT NULL DEFAULT '',
	funcionario_id    INTEGER,
	processado        INTEGER NOT NULL DEFAULT 0 CHECK(processado IN (0, 1)),
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_holerites_message_date ON holerites(message_date);
CREATE INDEX IF NOT EXISTS idx_holerites_funcionario_id ON holerites(funcionario_id);
CREATE INDEX IF NOT EXISTS idx_holerites_processado ON holerites(processado);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
