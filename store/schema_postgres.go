package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS countries (
    id          BIGSERIAL PRIMARY KEY,
    country     VARCHAR(56) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS currencies (
    id            BIGSERIAL PRIMARY KEY,
    currency_abbr VARCHAR(3) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS location_types (
    id            BIGSERIAL PRIMARY KEY,
    location_type VARCHAR(25) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS locations (
    id                 BIGSERIAL PRIMARY KEY,
    name               VARCHAR(50) NOT NULL UNIQUE,
    admin_phone_number VARCHAR(25) NOT NULL,
    country_id         BIGINT NOT NULL REFERENCES countries(id) ON DELETE CASCADE,
    location_type_id   BIGINT NOT NULL REFERENCES location_types(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_locations_country ON locations(country_id);
CREATE INDEX IF NOT EXISTS idx_locations_type ON locations(location_type_id);

CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      VARCHAR(25) NOT NULL UNIQUE,
    email_address TEXT NOT NULL UNIQUE,
    position      VARCHAR(40),
    password      TEXT NOT NULL,
    is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
    location_id   BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_users_location ON users(location_id);

CREATE TABLE IF NOT EXISTS projects (
    id                   BIGSERIAL PRIMARY KEY,
    title                VARCHAR(50) NOT NULL,
    published_date       DATE,
    description          TEXT,
    certification_number VARCHAR(25)
);

CREATE TABLE IF NOT EXISTS drawings (
    id               BIGSERIAL PRIMARY KEY,
    drawing_number   VARCHAR(10) NOT NULL,
    part_description TEXT,
    version          INTEGER,
    last_modified    TIMESTAMPTZ NOT NULL,
    project_id       BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_drawings_project ON drawings(project_id);

CREATE TABLE IF NOT EXISTS comments (
    id           BIGSERIAL PRIMARY KEY,
    comment      TEXT NOT NULL,
    when_created TIMESTAMPTZ NOT NULL,
    last_edited  TIMESTAMPTZ,
    project_id   BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_comments_project ON comments(project_id);
CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id);

CREATE TABLE IF NOT EXISTS manufactures (
    location_id    BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    project_id     BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    id             TEXT NOT NULL UNIQUE,
    price_estimate DOUBLE PRECISION NOT NULL,
    currency_id    BIGINT NOT NULL REFERENCES currencies(id),
    PRIMARY KEY (location_id, project_id)
);
CREATE INDEX IF NOT EXISTS idx_manufactures_project ON manufactures(project_id);

CREATE TABLE IF NOT EXISTS drawing_files (
    drawing_id   BIGINT PRIMARY KEY REFERENCES drawings(id) ON DELETE CASCADE,
    object_key   TEXT NOT NULL,
    content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
    size_bytes   BIGINT NOT NULL DEFAULT 0,
    sha256       TEXT NOT NULL DEFAULT '',
    uploaded_by  TEXT NOT NULL DEFAULT '',
    uploaded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS outbox (
    id          BIGSERIAL PRIMARY KEY,
    topic       TEXT NOT NULL,
    payload     BYTEA NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    msg_key     TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS audit_log (
    id          BIGSERIAL PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_key  TEXT NOT NULL DEFAULT '',
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT 'system',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_key);
`
