package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	priority        TEXT NOT NULL DEFAULT 'medium',
	status          TEXT NOT NULL DEFAULT 'pending'
		CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')),
	due_date        DATETIME,
	created_at      DATETIME NOT NULL,
	completed_at    DATETIME,
	reminder_date   DATETIME,
	repeat_rule     TEXT,
	repeat_interval INTEGER NOT NULL DEFAULT 1,
	project_id      TEXT REFERENCES projects(id) ON DELETE CASCADE,
	parent_task_id  TEXT REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS financial_records (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	amount      REAL NOT NULL CHECK(amount >= 0),
	type        TEXT NOT NULL CHECK(type IN ('income', 'expense')),
	category    TEXT NOT NULL DEFAULT 'other',
	date        DATETIME NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS budgets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	amount     REAL NOT NULL,
	spent      REAL NOT NULL DEFAULT 0,
	period     TEXT NOT NULL CHECK(period IN ('weekly', 'monthly', 'yearly')),
	start_date DATETIME NOT NULL,
	end_date   DATETIME NOT NULL,
	category   TEXT NOT NULL DEFAULT 'other'
);

CREATE TABLE IF NOT EXISTS credential_entries (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	username   TEXT NOT NULL DEFAULT '',
	secret     TEXT NOT NULL,
	website    TEXT,
	notes      TEXT,
	category   TEXT NOT NULL DEFAULT 'other',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	favorite   INTEGER NOT NULL DEFAULT 0 CHECK(favorite IN (0, 1))
);

CREATE TABLE IF NOT EXISTS virtual_assets (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL DEFAULT 'other',
	value       REAL NOT NULL DEFAULT 0,
	currency    TEXT NOT NULL DEFAULT 'CNY',
	expiry_date DATETIME,
	description TEXT,
	barcode     TEXT,
	active      INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent_task_id ON tasks(parent_task_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_financial_records_date ON financial_records(date);
CREATE INDEX IF NOT EXISTS idx_financial_records_type ON financial_records(type);
CREATE INDEX IF NOT EXISTS idx_budgets_category ON budgets(category);
CREATE INDEX IF NOT EXISTS idx_credential_entries_category ON credential_entries(category);
CREATE INDEX IF NOT EXISTS idx_virtual_assets_active ON virtual_assets(active);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
