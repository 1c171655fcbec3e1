package db

import (
	"context"
	"database/sql"
)

type DB struct {
	*sql.DB
}

const profilesMigration = `
CREATE TABLE IF NOT EXISTS profiles (
    id uuid PRIMARY KEY,
    email text NOT NULL,
    name text NOT NULL,
    photo_url text,
    is_premium boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS profiles_email_lower_unique
ON profiles (LOWER(email));
`

// RunProfilesMigration creates the profiles table. The id column is the
// identity provider's user id; there is no local id sequence on purpose.
func RunProfilesMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, profilesMigration)
	return err
}
