package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version string
	script  string
}

// Migrations mirror the in-memory seed: the same three demo users (plaintext
// secrets, so the upgrade-on-login path runs) and the same three pets.
var migrations = []migration{
	{
		version: "0001_create_users",
		script: `
			CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				secret TEXT NOT NULL,
				secret_hashed BOOLEAN NOT NULL DEFAULT FALSE,
				blocked BOOLEAN NOT NULL DEFAULT FALSE,
				login_attempts INTEGER NOT NULL DEFAULT 0,
				last_attempt_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`,
	},
	{
		version: "0002_create_pets",
		script: `
			CREATE TABLE IF NOT EXISTS pets (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				species TEXT NOT NULL,
				breed TEXT NOT NULL,
				age INTEGER NOT NULL,
				description TEXT NOT NULL,
				image TEXT NOT NULL,
				is_available BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`,
	},
	{
		version: "0003_seed_demo_data",
		script: `
			INSERT INTO users (email, name, secret, secret_hashed, created_at, updated_at) VALUES
				('brunna@example.com', 'Brunna Silva', '123456', FALSE, '2024-01-01', '2024-01-01'),
				('maria@example.com', 'Maria Santos', '123456', FALSE, '2024-01-02', '2024-01-02'),
				('joao@example.com', 'João Oliveira', '123456', FALSE, '2024-01-03', '2024-01-03')
			ON CONFLICT (email) DO NOTHING;

			INSERT INTO pets (name, species, breed, age, description, image, is_available, created_at, updated_at) VALUES
				('Rex', 'Cachorro', 'Labrador', 3, 'Cachorro muito carinhoso e brincalhão', 'https://images.unsplash.com/photo-1552053831-71594a27632d?w=400', TRUE, '2024-01-01', '2024-01-01'),
				('Mimi', 'Gato', 'Persa', 2, 'Gato tranquilo e independente', 'https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400', TRUE, '2024-01-02', '2024-01-02'),
				('Thor', 'Cachorro', 'Husky Siberiano', 1, 'Filhote muito energético e inteligente', 'https://images.unsplash.com/photo-1547407139-3c921a66005c?w=400', TRUE, '2024-01-03', '2024-01-03')
		`,
	},
}

func RunMigrations(database *sql.DB) error {
	if _, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists bool
		if err := database.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", m.version, err)
		}
		if exists {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.version, err)
		}

		if _, err := tx.Exec(m.script); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", m.version, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.version, err)
		}
	}

	return nil
}
