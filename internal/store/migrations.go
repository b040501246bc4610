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

CREATE TABLE IF NOT EXISTS goals (
	id                  TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	created_at          DATETIME NOT NULL,
	sort_order          INTEGER NOT NULL DEFAULT 0,
	color               TEXT NOT NULL DEFAULT '',
	streak_counter      INTEGER NOT NULL DEFAULT 0 CHECK(streak_counter >= 0),
	last_completed_date TEXT,
	level               INTEGER NOT NULL DEFAULT 1 CHECK(level >= 1),
	xp                  INTEGER NOT NULL DEFAULT 0 CHECK(xp >= 0),
	prestige_level      INTEGER NOT NULL DEFAULT 0 CHECK(prestige_level >= 0),
	badges              TEXT NOT NULL DEFAULT '[]',
	task_ids            TEXT NOT NULL DEFAULT '[]',
	archived            INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	paused              INTEGER NOT NULL DEFAULT 0 CHECK(paused IN (0, 1)),
	last_active_at      DATETIME
);

CREATE TABLE IF NOT EXISTS tasks (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	due_date           TEXT,
	suggested_due_date TEXT,
	created_at         DATETIME NOT NULL,
	goal_id            TEXT,
	tags               TEXT NOT NULL DEFAULT '[]',
	completed          INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at       DATETIME,
	priority           TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
	archived           INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	quiet              INTEGER NOT NULL DEFAULT 0 CHECK(quiet IN (0, 1)),
	repeat_pattern     TEXT,
	dependencies       TEXT NOT NULL DEFAULT '[]',
	xp                 INTEGER,
	time_spent         INTEGER,
	theme_id           TEXT
);

CREATE TABLE IF NOT EXISTS history (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	entity_type TEXT NOT NULL CHECK(entity_type IN ('task', 'goal')),
	timestamp   DATETIME NOT NULL,
	details     TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS daily_themes (
	day         TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT '',
	quote       TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id      TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	avatar       TEXT NOT NULL DEFAULT '',
	bio          TEXT NOT NULL DEFAULT '',
	location     TEXT NOT NULL DEFAULT '',
	hobbies      TEXT NOT NULL DEFAULT '[]',
	social_links TEXT NOT NULL DEFAULT '{}',
	preferences  TEXT NOT NULL DEFAULT '{}',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goals_sort_order ON goals(sort_order);
CREATE INDEX IF NOT EXISTS idx_tasks_goal_id ON tasks(goal_id);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);
CREATE INDEX IF NOT EXISTS idx_history_entity_id ON history(entity_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE tasks ADD COLUMN series_id TEXT;
ALTER TABLE goals ADD COLUMN version INTEGER NOT NULL DEFAULT 1;

CREATE INDEX IF NOT EXISTS idx_tasks_series_id ON tasks(series_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// tables lists every collection, in the order they are cleared.
var tables = []string{"history", "tasks", "goals", "daily_themes", "user_profiles"}
