package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the history tables. recorded_at holds Unix nanoseconds so
// range filters and ordering do not depend on driver time formatting.
const Schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    request_id TEXT,
    recorded_at INTEGER NOT NULL,

    ingredients TEXT NOT NULL,
    ingredients_hash TEXT NOT NULL,

    status TEXT NOT NULL,
    risk_score INTEGER NOT NULL,
    summary TEXT NOT NULL,
    matched_rule TEXT,
    keyword_hits TEXT NOT NULL,

    engine TEXT NOT NULL,
    catalog_version TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_recorded_at ON analyses(recorded_at);
CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_analyses_matched_rule ON analyses(matched_rule);
CREATE INDEX IF NOT EXISTS idx_analyses_ingredients_hash ON analyses(ingredients_hash);
`

// InsertSchemaVersion records the applied schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion returns the newest applied schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO analyses (
    id, request_id, recorded_at,
    ingredients, ingredients_hash,
    status, risk_score, summary, matched_rule, keyword_hits,
    engine, catalog_version
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `
SELECT id, request_id, recorded_at,
    ingredients, ingredients_hash,
    status, risk_score, summary, matched_rule, keyword_hits,
    engine, catalog_version
FROM analyses`
