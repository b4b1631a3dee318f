package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/clients/postgres"
	"github.com/MishalQamar/appointment-booking-system/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	profile_picture_url TEXT,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS services (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	price_cents      INTEGER NOT NULL,
	duration_minutes INTEGER NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS working_schedules (
	id                  TEXT PRIMARY KEY,
	employee_id         TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	start_date          TIMESTAMPTZ NOT NULL,
	end_date            TIMESTAMPTZ NOT NULL,
	sunday_starts_at    TEXT, sunday_ends_at    TEXT,
	monday_starts_at    TEXT, monday_ends_at    TEXT,
	tuesday_starts_at   TEXT, tuesday_ends_at   TEXT,
	wednesday_starts_at TEXT, wednesday_ends_at TEXT,
	thursday_starts_at  TEXT, thursday_ends_at  TEXT,
	friday_starts_at    TEXT, friday_ends_at    TEXT,
	saturday_starts_at  TEXT, saturday_ends_at  TEXT
);

CREATE TABLE IF NOT EXISTS schedule_exclusions (
	id          TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	starts_at   TIMESTAMPTZ NOT NULL,
	ends_at     TIMESTAMPTZ NOT NULL,
	reason      TEXT
);

CREATE TABLE IF NOT EXISTS appointments (
	id           TEXT PRIMARY KEY,
	employee_id  TEXT NOT NULL REFERENCES employees(id),
	service_id   TEXT NOT NULL REFERENCES services(id),
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	date         TIMESTAMPTZ NOT NULL,
	starts_at    TIMESTAMPTZ NOT NULL,
	ends_at      TIMESTAMPTZ NOT NULL,
	cancelled_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_appointments_employee_range
	ON appointments (employee_id, starts_at, ends_at);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := goqu.New("postgres", pgClient.DB())

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				appointments,
				schedule_exclusions,
				working_schedules,
				services,
				employees
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Seed Services
	services := []goqu.Record{
		{"id": uuid.New().String(), "title": "Hair Cut", "price_cents": 2500, "duration_minutes": 30, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "title": "Beard Trim", "price_cents": 1500, "duration_minutes": 15, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "title": "Hair Colouring", "price_cents": 6000, "duration_minutes": 60, "created_at": now, "updated_at": now},
	}
	for _, record := range services {
		insert(ctx, db, pgClient, "services", record)
	}

	// 2. Seed Employees with Mon-Sat 09:00-17:00 schedules
	employees := []string{"Alice Johnson", "Bob Smith"}
	scheduleStart := time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC)
	scheduleEnd := scheduleStart.AddDate(2, 0, 0)

	for _, name := range employees {
		employeeID := uuid.New().String()
		insert(ctx, db, pgClient, "employees", goqu.Record{
			"id":         employeeID,
			"name":       name,
			"created_at": now,
			"updated_at": now,
		})

		schedule := goqu.Record{
			"id":          uuid.New().String(),
			"employee_id": employeeID,
			"start_date":  scheduleStart,
			"end_date":    scheduleEnd,
		}
		for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
			schedule[day+"_starts_at"] = "09:00"
			schedule[day+"_ends_at"] = "17:00"
		}
		insert(ctx, db, pgClient, "working_schedules", schedule)

		log.Printf("Seeded employee %s (%s)", name, employeeID)
	}

	log.Println("Seeding complete")
}

func insert(ctx context.Context, db *goqu.Database, client *postgres.Client, table string, record goqu.Record) {
	query, args, err := db.Insert(table).Rows(record).ToSQL()
	if err != nil {
		log.Fatalf("Failed to build insert for %s: %v", table, err)
	}
	if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to insert into %s: %v", table, err)
	}
}
