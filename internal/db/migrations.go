package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('PENDENTE', 'CORRIGIDO', 'APROVADO', 'REPROVADO');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_kind') THEN
			CREATE TYPE report_kind AS ENUM ('RFT', 'RDS');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_scope') THEN
			CREATE TYPE report_scope AS ENUM ('SEGMENT', 'ROAD');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'photo_kind') THEN
			CREATE TYPE photo_kind AS ENUM ('RFT', 'RDS');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('ADMIN', 'ENGINEER', 'FIELD');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role user_role NOT NULL DEFAULT 'FIELD',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS roads (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		code VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS segments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		road_id UUID NOT NULL REFERENCES roads(id) ON DELETE CASCADE,
		name VARCHAR(255),
		start_km DOUBLE PRECISION NOT NULL,
		end_km DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_segment_bounds CHECK (start_km <= end_km)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_segments_road_id ON segments (road_id);`,
	`CREATE TABLE IF NOT EXISTS visits (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		segment_id UUID NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
		inspector_id UUID REFERENCES users(id) ON DELETE SET NULL,
		visited_at TIMESTAMPTZ NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_visits_segment_id ON visits (segment_id);`,
	`CREATE TABLE IF NOT EXISTS defect_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		external_code VARCHAR(32) NOT NULL UNIQUE,
		classification VARCHAR(255) NOT NULL,
		igg_category VARCHAR(64),
		weight DOUBLE PRECISION CHECK (weight IS NULL OR weight > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS rds_occurrences (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		category VARCHAR(128) NOT NULL,
		label VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_rds_occurrence ON rds_occurrences (category, label);`,
	`CREATE TABLE IF NOT EXISTS photos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		visit_id UUID NOT NULL REFERENCES visits(id) ON DELETE CASCADE,
		segment_id UUID NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
		kind photo_kind NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		captured_at TIMESTAMPTZ NOT NULL,
		file_url TEXT,
		defect_type_id UUID REFERENCES defect_types(id) ON DELETE SET NULL,
		occurrence_id UUID REFERENCES rds_occurrences(id) ON DELETE SET NULL,
		extension_m DOUBLE PRECISION,
		width_m DOUBLE PRECISION,
		stake VARCHAR(32),
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_visit_id ON photos (visit_id);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_segment_id ON photos (segment_id);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_defect_type_id ON photos (defect_type_id);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_deleted_at ON photos (deleted_at);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		kind report_kind NOT NULL,
		scope report_scope NOT NULL,
		status report_status NOT NULL DEFAULT 'PENDENTE',
		road_id UUID NOT NULL REFERENCES roads(id) ON DELETE CASCADE,
		segment_id UUID REFERENCES segments(id) ON DELETE CASCADE,
		visit_id UUID REFERENCES visits(id) ON DELETE SET NULL,
		created_by UUID REFERENCES users(id) ON DELETE SET NULL,
		reviewed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at TIMESTAMPTZ,
		rejection_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_segment_scope CHECK (scope != 'SEGMENT' OR segment_id IS NOT NULL)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_road_id ON reports (road_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_segment_id ON reports (segment_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports (kind);`,
	`CREATE TABLE IF NOT EXISTS report_photos (
		report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		photo_id UUID NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (report_id, photo_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_photos_photo_id ON report_photos (photo_id);`,
	`CREATE TABLE IF NOT EXISTS consolidation_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		consolidated_report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		source_report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_consolidation_source ON consolidation_items (source_report_id);`,
	`CREATE INDEX IF NOT EXISTS idx_consolidation_items_report ON consolidation_items (consolidated_report_id);`,
	`CREATE TABLE IF NOT EXISTS report_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		old_status report_status,
		new_status report_status NOT NULL,
		note TEXT,
		changed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_status_log_report_id ON report_status_log (report_id);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_reports_updated_at') THEN
			CREATE TRIGGER trg_reports_updated_at
				BEFORE UPDATE ON reports
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_photos_updated_at') THEN
			CREATE TRIGGER trg_photos_updated_at
				BEFORE UPDATE ON photos
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
