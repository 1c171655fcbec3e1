package user

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/kassiods/Estude/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore implements Store against the profiles table.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `id, email, name, COALESCE(photo_url, ''), is_premium, created_at, updated_at`

func scanProfile(row *sql.Row) (*Profile, error) {
	var (
		p  Profile
		id uuid.UUID
	)
	err := row.Scan(
		&id,
		&p.Email,
		&p.Name,
		&p.PhotoURL,
		&p.IsPremium,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}


func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Profile, error) {
	// Identity ids are provider-issued UUIDs; anything else can never
	// match a row, so skip the round trip.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1
	`, id)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p Profile) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, name, photo_url, is_premium)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING `+profileColumns+`
	`,
		p.ID,
		p.Email,
		p.Name,
		p.PhotoURL,
		p.IsPremium,
	)

	created, err := scanProfile(row)
	if isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, id, email, name string, isPremium bool) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, name, is_premium)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    is_premium = EXCLUDED.is_premium,
		    updated_at = NOW()
		RETURNING `+profileColumns+`
	`,
		id,
		email,
		name,
		isPremium,
	)

	return scanProfile(row)
}

func (s *PostgresStore) Update(ctx context.Context, id string, fields UpdateFields) (*Profile, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if fields.Name != nil {
		args = append(args, *fields.Name)
		set = append(set, "name = $"+strconv.Itoa(len(args)))
	}
	if fields.PhotoURL != nil {
		args = append(args, *fields.PhotoURL)
		set = append(set, "photo_url = NULLIF($"+strconv.Itoa(len(args))+", '')")
	}

	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	row := s.db.QueryRowContext(ctx, `
		UPDATE profiles
		SET `+strings.Join(set, ", ")+`
		WHERE id = $`+strconv.Itoa(len(args))+`
		RETURNING `+profileColumns,
		args...,
	)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
