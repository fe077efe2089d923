package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so the full list
// runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Column additions re-run against databases that already have them.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := ensureSettingsRow(db); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}
	return nil
}

// ensureSettingsRow guarantees the singleton settings row exists so reads never
// have to special-case a missing row.
func ensureSettingsRow(db *sql.DB) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO settings (id, bulk_only) VALUES (1, 0)`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schemes (
		id            TEXT PRIMARY KEY,
		teacher_id    TEXT NOT NULL,
		class         TEXT NOT NULL,
		subject       TEXT NOT NULL,
		academic_year TEXT NOT NULL DEFAULT '',
		term          TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE(teacher_id, class, subject, academic_year, term)
	)`,

	`CREATE TABLE IF NOT EXISTS chapters (
		scheme_id      TEXT NOT NULL REFERENCES schemes(id) ON DELETE CASCADE,
		number         INTEGER NOT NULL CHECK(number >= 1),
		name           TEXT NOT NULL DEFAULT '',
		total_sessions INTEGER NOT NULL DEFAULT 0 CHECK(total_sessions >= 0),
		completed      INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		PRIMARY KEY (scheme_id, number)
	)`,

	`CREATE TABLE IF NOT EXISTS lesson_plans (
		id               TEXT PRIMARY KEY,
		scheme_id        TEXT NOT NULL,
		chapter_number   INTEGER NOT NULL,
		session_number   INTEGER NOT NULL CHECK(session_number >= 1),
		session_name     TEXT NOT NULL DEFAULT '',
		teacher_id       TEXT NOT NULL,
		class            TEXT NOT NULL,
		subject          TEXT NOT NULL,
		status           TEXT NOT NULL
		                 CHECK(status IN ('Pending Review','Ready','Cascaded','Reported','Cancelled','Rejected')),
		plan_status_note TEXT NOT NULL DEFAULT '',
		planned_date     TEXT,
		planned_period   TEXT,
		original_date    TEXT,
		original_period  TEXT,
		is_extended      INTEGER NOT NULL DEFAULT 0,
		duration_min     INTEGER NOT NULL DEFAULT 0,
		objectives       TEXT NOT NULL DEFAULT '',
		methods          TEXT NOT NULL DEFAULT '',
		resources        TEXT NOT NULL DEFAULT '',
		assessment       TEXT NOT NULL DEFAULT '',
		reported_at      TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		FOREIGN KEY (scheme_id, chapter_number) REFERENCES chapters(scheme_id, number) ON DELETE CASCADE
	)`,

	`ALTER TABLE lesson_plans ADD COLUMN review_comment TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS timetable_slots (
		id         TEXT PRIMARY KEY,
		teacher_id TEXT NOT NULL,
		weekday    INTEGER NOT NULL CHECK(weekday BETWEEN 0 AND 6),
		period     TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time   TEXT NOT NULL DEFAULT '',
		class      TEXT NOT NULL,
		subject    TEXT NOT NULL,
		UNIQUE(teacher_id, weekday, period)
	)`,

	`CREATE TABLE IF NOT EXISTS exams (
		id         TEXT PRIMARY KEY,
		date       TEXT NOT NULL,
		period     TEXT,
		exam_type  TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL DEFAULT '',
		class      TEXT NOT NULL,
		subject    TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id             INTEGER PRIMARY KEY CHECK(id = 1),
		bulk_only      INTEGER NOT NULL DEFAULT 0,
		window_start   TEXT,
		window_end     TEXT,
		submission_day INTEGER CHECK(submission_day IS NULL OR submission_day BETWEEN 0 AND 6)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schemes_teacher ON schemes(teacher_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lesson_plans_chapter ON lesson_plans(scheme_id, chapter_number)`,
	// One live plan per session; rejected rows stay as history.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lesson_plans_session_live
		ON lesson_plans(scheme_id, chapter_number, session_number)
		WHERE status <> 'Rejected'`,
	// A teacher holds each period at most once.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lesson_plans_slot_live
		ON lesson_plans(teacher_id, planned_date, planned_period)
		WHERE status NOT IN ('Rejected', 'Cancelled') AND planned_date IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_timetable_teacher ON timetable_slots(teacher_id, class, subject)`,
	`CREATE INDEX IF NOT EXISTS idx_exams_scope ON exams(class, subject, date)`,
}
