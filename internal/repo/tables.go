package repo

import (
	"context"
	"database/sql"
	"fmt"

	"Timber/internal/catalog"
	"Timber/internal/material"
)

// Schema creates the tables used by the server. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT UNIQUE NOT NULL,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS designs (
	id SERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	input JSONB NOT NULL,
	result JSONB,
	passes BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS catalog_sections (
	member_type TEXT NOT NULL,
	width_mm INTEGER NOT NULL,
	depth_mm INTEGER NOT NULL,
	PRIMARY KEY (member_type, width_mm, depth_mm)
);
CREATE TABLE IF NOT EXISTS material_grades (
	grade TEXT PRIMARY KEY,
	bending_strength_mpa DOUBLE PRECISION NOT NULL,
	modulus_of_elasticity_mpa DOUBLE PRECISION NOT NULL,
	shear_strength_mpa DOUBLE PRECISION NOT NULL,
	density_kg_m3 DOUBLE PRECISION NOT NULL,
	charring_rate_mm_min DOUBLE PRECISION NOT NULL
);`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// LoadCatalogEntries reads stocked sections. An empty table returns no
// entries and no error.
func (r *PostgresUserRepository) LoadCatalogEntries(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT member_type, width_mm, depth_mm FROM catalog_sections")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var kind string
		var e catalog.Entry
		if err := rows.Scan(&kind, &e.Width, &e.Depth); err != nil {
			return nil, err
		}
		if e.Type, err = catalog.ParseMemberType(kind); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresUserRepository) LoadMaterials(ctx context.Context) ([]material.Properties, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT grade, bending_strength_mpa, modulus_of_elasticity_mpa,
		shear_strength_mpa, density_kg_m3, charring_rate_mm_min FROM material_grades ORDER BY grade`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []material.Properties
	for rows.Next() {
		var p material.Properties
		if err := rows.Scan(&p.Grade, &p.BendingStrength, &p.ModulusOfElasticity,
			&p.ShearStrength, &p.Density, &p.CharringRate); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}
