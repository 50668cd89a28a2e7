package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createBookingsTable,
		createWizardSessionsTable,
		createBookingsGuardianIndex,
		createBookingsSweepIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    birthday DATE,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_logged_in TIMESTAMP NOT NULL DEFAULT NOW()
);`

// Amounts are currency minor units; the two status columns are constrained to
// the pairs the lifecycle can actually reach.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    guardian_id INTEGER REFERENCES users(user_id),
    activity_id BIGINT NOT NULL,
    activity_title VARCHAR(500) NOT NULL DEFAULT '',
    venue_id BIGINT NOT NULL DEFAULT 0,
    venue_name VARCHAR(255) NOT NULL DEFAULT '',
    child_id BIGINT NOT NULL,
    child_name VARCHAR(255) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    total_amount BIGINT NOT NULL DEFAULT 0,
    currency CHAR(3) NOT NULL DEFAULT 'GBP',
    payment_channel VARCHAR(10) NOT NULL DEFAULT 'card',
    card_paid BIGINT NOT NULL DEFAULT 0,
    voucher_paid BIGINT NOT NULL DEFAULT 0,
    activity_date TIMESTAMP NOT NULL,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    sessions_total INTEGER NOT NULL DEFAULT 1,
    sessions_used INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    special_requirements TEXT NOT NULL DEFAULT '',
    emergency_contact TEXT NOT NULL DEFAULT '',
    payment_id VARCHAR(255),
    order_id VARCHAR(255),
    wallet_ref VARCHAR(255),
    cancel_reason TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'COMPLETED')),
    CHECK (payment_status IN ('PENDING', 'PAID', 'FAILED', 'REFUNDED')),
    CHECK ((status, payment_status) IN (
        ('PENDING', 'PENDING'),
        ('PENDING', 'FAILED'),
        ('CONFIRMED', 'PAID'),
        ('CANCELLED', 'REFUNDED'),
        ('CANCELLED', 'PAID'),
        ('CANCELLED', 'PENDING'),
        ('CANCELLED', 'FAILED'),
        ('COMPLETED', 'PAID')
    )),
    CHECK (payment_channel IN ('card', 'voucher', 'mixed')),
    CHECK (sessions_total >= 1),
    CHECK (sessions_used >= 0 AND sessions_used <= sessions_total)
);`

const createWizardSessionsTable = `
CREATE TABLE IF NOT EXISTS wizard_sessions (
    id UUID PRIMARY KEY,
    guardian_id INTEGER REFERENCES users(user_id),
    flow VARCHAR(20) NOT NULL,
    snapshot JSONB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (flow IN ('single', 'block', 'trial'))
);`

const createBookingsGuardianIndex = `
CREATE INDEX IF NOT EXISTS bookings_guardian_idx
ON bookings (guardian_id, created_at DESC);`

const createBookingsSweepIndex = `
CREATE INDEX IF NOT EXISTS bookings_sweep_idx
ON bookings (status, activity_date)
WHERE status = 'CONFIRMED';`
