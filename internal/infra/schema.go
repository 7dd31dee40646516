package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureCoreSchema makes the backend self-bootstrapping:
// - creates every core table if missing (idempotent)
// - adds columns older databases miss (non-destructive, no DROP COLUMN)
// - installs the signup trigger that creates profile and dealer rows
//
// The jobs table is created WITHOUT trade vehicle columns; those arrive
// through the optional migration in migrations/. Inserts that name them on
// a database that never ran it fail with SQLSTATE 42703, which the job
// creation workflow knows how to degrade around.
func EnsureCoreSchema(ctx context.Context, pg *pgxpool.Pool) error {
	if _, err := pg.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`); err != nil {
		return err
	}

	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS auth_users (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  email VARCHAR NOT NULL,
  password_hash VARCHAR NOT NULL,
  email_confirmed BOOLEAN NOT NULL DEFAULT false,
  user_type VARCHAR NULL,
  full_name VARCHAR NULL,
  company_name VARCHAR NULL,
  phone VARCHAR NULL,
  created_at TIMESTAMP NOT NULL DEFAULT now(),
  updated_at TIMESTAMP NOT NULL DEFAULT now()
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_auth_users_email ON auth_users (lower(email));`,
		`
CREATE TABLE IF NOT EXISTS dealers (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name VARCHAR NOT NULL,
  email VARCHAR NULL,
  store VARCHAR NULL,
  street VARCHAR NULL,
  city VARCHAR NULL,
  state VARCHAR NULL,
  zip VARCHAR NULL,
  address VARCHAR NULL,
  phone VARCHAR NULL,
  website VARCHAR NULL,
  position VARCHAR NULL,
  dealership_code VARCHAR NULL,
  status VARCHAR NOT NULL DEFAULT 'active',
  created_at TIMESTAMP NOT NULL DEFAULT now(),
  updated_at TIMESTAMP NOT NULL DEFAULT now()
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_dealers_email ON dealers (lower(email)) WHERE email IS NOT NULL;`,
		`
CREATE TABLE IF NOT EXISTS profiles (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id UUID NOT NULL UNIQUE,
  user_type VARCHAR NULL,
  dealer_id UUID NULL REFERENCES dealers(id),
  full_name VARCHAR NULL,
  first_name VARCHAR NULL,
  last_name VARCHAR NULL,
  phone VARCHAR NULL,
  created_at TIMESTAMP NOT NULL DEFAULT now(),
  updated_at TIMESTAMP NOT NULL DEFAULT now()
);`,
		`
CREATE TABLE IF NOT EXISTS jobs (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  dealer_id UUID NOT NULL REFERENCES dealers(id),
  created_by UUID NULL,
  type VARCHAR NOT NULL,
  status VARCHAR NOT NULL DEFAULT 'open',
  year INT NULL,
  make VARCHAR NULL,
  model VARCHAR NULL,
  vin VARCHAR NULL,
  customer_name VARCHAR NULL,
  customer_phone VARCHAR NULL,
  pickup_address VARCHAR NOT NULL,
  delivery_address VARCHAR NOT NULL,
  timeframe VARCHAR NULL,
  distance_miles INT NOT NULL DEFAULT 25,
  requires_two BOOLEAN NOT NULL DEFAULT false,
  notes TEXT NULL,
  track_token VARCHAR NOT NULL,
  assigned_driver UUID NULL,
  created_at TIMESTAMP NOT NULL DEFAULT now(),
  updated_at TIMESTAMP NOT NULL DEFAULT now()
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_track_token ON jobs (track_token);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_dealer_status ON jobs (dealer_id, status);`,
		`
CREATE TABLE IF NOT EXISTS assignments (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  job_id UUID NOT NULL REFERENCES jobs(id),
  driver_id UUID NOT NULL,
  accepted_at TIMESTAMP NOT NULL DEFAULT now(),
  started_at TIMESTAMP NULL,
  completed_at TIMESTAMP NULL
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_job ON assignments (job_id);`,
		`
CREATE TABLE IF NOT EXISTS staff (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id UUID NOT NULL,
  dealer_id UUID NOT NULL REFERENCES dealers(id),
  role VARCHAR NOT NULL DEFAULT 'staff',
  invited_by UUID NULL,
  joined_at TIMESTAMP NOT NULL DEFAULT now(),
  is_active BOOLEAN NOT NULL DEFAULT true,
  UNIQUE (user_id, dealer_id)
);`,
		`
CREATE TABLE IF NOT EXISTS drivers (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id UUID NULL,
  dealer_id UUID NULL REFERENCES dealers(id),
  name VARCHAR NOT NULL,
  email VARCHAR NULL,
  phone VARCHAR NULL,
  checkr_status VARCHAR NOT NULL DEFAULT 'pending',
  available BOOLEAN NOT NULL DEFAULT true,
  created_at TIMESTAMP NOT NULL DEFAULT now(),
  updated_at TIMESTAMP NOT NULL DEFAULT now()
);`,
		`CREATE INDEX IF NOT EXISTS idx_drivers_dealer ON drivers (dealer_id);`,
		`
CREATE TABLE IF NOT EXISTS form_submissions (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  form_type VARCHAR NOT NULL,
  name VARCHAR NULL,
  email VARCHAR NULL,
  message TEXT NULL,
  status VARCHAR NOT NULL,
  error_message TEXT NULL,
  metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMP NOT NULL DEFAULT now()
);`,
	}
	for _, q := range stmts {
		if _, err := pg.Exec(ctx, q); err != nil {
			return err
		}
	}

	// Non-destructive upgrades for older databases.
	if _, err := pg.Exec(ctx, `
ALTER TABLE jobs
  ADD COLUMN IF NOT EXISTS requires_two BOOLEAN NOT NULL DEFAULT false,
  ADD COLUMN IF NOT EXISTS timeframe VARCHAR NULL,
  ADD COLUMN IF NOT EXISTS assigned_driver UUID NULL;
`); err != nil {
		return err
	}
	if _, err := pg.Exec(ctx, `
ALTER TABLE drivers
  ADD COLUMN IF NOT EXISTS checkr_status VARCHAR NOT NULL DEFAULT 'pending',
  ADD COLUMN IF NOT EXISTS available BOOLEAN NOT NULL DEFAULT true;
`); err != nil {
		return err
	}

	return ensureSignupTrigger(ctx, pg)
}

// ensureSignupTrigger installs handle_new_user: every auth_users insert gets
// a profile row, and dealer-typed signups get a dealer row attached to it.
// The dealer appearing is asynchronous from the caller's point of view,
// which is why registration polls for it.
func ensureSignupTrigger(ctx context.Context, pg *pgxpool.Pool) error {
	if _, err := pg.Exec(ctx, `
CREATE OR REPLACE FUNCTION handle_new_user() RETURNS trigger AS $$
DECLARE
  new_dealer_id UUID;
BEGIN
  IF NEW.user_type = 'dealer' THEN
    INSERT INTO dealers (name, email, store, status)
    VALUES (COALESCE(NEW.company_name, 'Dealer'), NEW.email, COALESCE(NEW.company_name, 'Pending Dealership'), 'active')
    RETURNING id INTO new_dealer_id;
  END IF;

  INSERT INTO profiles (user_id, user_type, dealer_id, full_name, phone)
  VALUES (NEW.id, NEW.user_type, new_dealer_id, NEW.full_name, NEW.phone)
  ON CONFLICT (user_id) DO NOTHING;

  RETURN NEW;
END;
$$ LANGUAGE plpgsql;
`); err != nil {
		return err
	}

	_, err := pg.Exec(ctx, `
DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'on_auth_user_created') THEN
    CREATE TRIGGER on_auth_user_created
      AFTER INSERT ON auth_users
      FOR EACH ROW EXECUTE FUNCTION handle_new_user();
  END IF;
END
$$;
`)
	return err
}
