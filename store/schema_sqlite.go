package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS countries (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    country     TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS currencies (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    currency_abbr TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS location_types (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    location_type TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS locations (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    name               TEXT NOT NULL UNIQUE,
    admin_phone_number TEXT NOT NULL,
    country_id         INTEGER NOT NULL REFERENCES countries(id) ON DELETE CASCADE,
    location_type_id   INTEGER NOT NULL REFERENCES location_types(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_locations_country ON locations(country_id);
CREATE INDEX IF NOT EXISTS idx_locations_type ON locations(location_type_id);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    email_address TEXT NOT NULL UNIQUE,
    position      TEXT,
    password      TEXT NOT NULL,
    is_admin      INTEGER NOT NULL DEFAULT 0,
    location_id   INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_users_location ON users(location_id);

CREATE TABLE IF NOT EXISTS projects (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    title                TEXT NOT NULL,
    published_date       TEXT,
    description          TEXT,
    certification_number TEXT
);

CREATE TABLE IF NOT EXISTS drawings (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    drawing_number   TEXT NOT NULL,
    part_description TEXT,
    version          INTEGER,
    last_modified    TEXT NOT NULL,
    project_id       INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_drawings_project ON drawings(project_id);

CREATE TABLE IF NOT EXISTS comments (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    comment      TEXT NOT NULL,
    when_created TEXT NOT NULL,
    last_edited  TEXT,
    project_id   INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_comments_project ON comments(project_id);
CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id);

CREATE TABLE IF NOT EXISTS manufactures (
    location_id    INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    project_id     INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    id             TEXT NOT NULL UNIQUE,
    price_estimate REAL NOT NULL,
    currency_id    INTEGER NOT NULL REFERENCES currencies(id),
    PRIMARY KEY (location_id, project_id)
);
CREATE INDEX IF NOT EXISTS idx_manufactures_project ON manufactures(project_id);

CREATE TABLE IF NOT EXISTS drawing_files (
    drawing_id   INTEGER PRIMARY KEY REFERENCES drawings(id) ON DELETE CASCADE,
    object_key   TEXT NOT NULL,
    content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
    size_bytes   INTEGER NOT NULL DEFAULT 0,
    sha256       TEXT NOT NULL DEFAULT '',
    uploaded_by  TEXT NOT NULL DEFAULT '',
    uploaded_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS outbox (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL,
    payload     BLOB NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    msg_key     TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS audit_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_key  TEXT NOT NULL DEFAULT '',
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT 'system',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_key);
`
