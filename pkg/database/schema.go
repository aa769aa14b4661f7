package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS semesters (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    year INTEGER NOT NULL,
    program TEXT NOT NULL,
    uploaded_by TEXT NOT NULL DEFAULT '',
    uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (name, year, program)
)`,
	`CREATE TABLE IF NOT EXISTS course_offerings (
    id TEXT PRIMARY KEY,
    semester_id TEXT NOT NULL REFERENCES semesters(id) ON DELETE CASCADE,
    program TEXT NOT NULL DEFAULT '',
    course_code TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    section TEXT NOT NULL,
    course_type TEXT NOT NULL DEFAULT 'Theory',
    credit NUMERIC(4,2) NOT NULL DEFAULT 0,
    day1 TEXT NOT NULL DEFAULT '',
    day2 TEXT NOT NULL DEFAULT '',
    time1 TEXT NOT NULL DEFAULT '',
    time2 TEXT NOT NULL DEFAULT '',
    room1 TEXT NOT NULL DEFAULT '',
    room2 TEXT NOT NULL DEFAULT '',
    faculty_name TEXT NOT NULL DEFAULT '',
    faculty_initial TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    UNIQUE (semester_id, course_code, section)
)`,
	`CREATE INDEX IF NOT EXISTS idx_course_offerings_semester_code ON course_offerings (semester_id, course_code)`,
	`CREATE TABLE IF NOT EXISTS saved_schedules (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    semester_id TEXT,
    title TEXT NOT NULL DEFAULT '',
    sections JSONB NOT NULL,
    stats JSONB NOT NULL,
    preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
    score INTEGER NOT NULL DEFAULT 0,
    is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_schedules_user ON saved_schedules (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
    id TEXT PRIMARY KEY,
    schedule_id TEXT NOT NULL REFERENCES saved_schedules(id) ON DELETE CASCADE,
    format TEXT NOT NULL,
    status TEXT NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0,
    result_url TEXT,
    created_by TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    finished_at TIMESTAMPTZ,
    error_message TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_export_jobs_status ON export_jobs (status, created_at)`,
}
