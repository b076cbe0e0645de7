package repository

// Schema creates the sandbox tables. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash BLOB NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	is_admin      INTEGER NOT NULL DEFAULT 0,
	is_verified   INTEGER NOT NULL DEFAULT 0,
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS user_sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_sessions_user ON user_sessions(user_id);

CREATE TABLE IF NOT EXISTS workflows (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL,
	icon        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price       TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '',
	is_active   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS payments (
	reference     TEXT PRIMARY KEY,
	access_code   TEXT NOT NULL,
	user_id       TEXT NOT NULL,
	email         TEXT NOT NULL,
	amount        TEXT NOT NULL,
	purchase_type TEXT NOT NULL,
	workflow_id   INTEGER,
	workflow_name TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS custom_requests (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	name                 TEXT NOT NULL,
	email                TEXT NOT NULL,
	phone                TEXT NOT NULL DEFAULT '',
	workflow_description TEXT NOT NULL,
	use_case             TEXT NOT NULL,
	budget               TEXT NOT NULL DEFAULT '',
	timeline             TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL DEFAULT 'new',
	created_at           TIMESTAMP NOT NULL
);
`
