package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS estimates (
    id                   TEXT PRIMARY KEY,
    created_at           TEXT NOT NULL,
    project_type         TEXT NOT NULL,
    customer_name        TEXT,
    project_name         TEXT,
    primary_model        TEXT,
    request_json         TEXT NOT NULL,
    result_json          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_estimates_created ON estimates(created_at);
`
