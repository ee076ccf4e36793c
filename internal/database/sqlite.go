package database

import (
	"database/sql"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DBRepository wraps the run-history database. It is diagnostic only: the
// dedup state lives in the flat seen file, not here.
type DBRepository struct {
	DB *sql.DB
}

// RunRecord is one monitoring pass as stored in the runs table.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Searches   string
	LotsFound  int
	LotsNew    int
	Sent       int
	Failed     int
}

// InitDB opens (or creates) the history database and its tables.
func InitDB(filepath string) *DBRepository {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		log.Fatalf("Error opening history database: %v", err)
	}
	if err = db.Ping(); err != nil {
		log.Fatalf("Error pinging history database: %v", err)
	}

	createRunsTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"started_at" DATETIME,
		"finished_at" DATETIME,
		"searches" TEXT,
		"lots_found" INTEGER DEFAULT 0,
		"lots_new" INTEGER DEFAULT 0,
		"sent" INTEGER DEFAULT 0,
		"failed" INTEGER DEFAULT 0
	);`
	if _, err = db.Exec(createRunsTableSQL); err != nil {
		log.Fatalf("Error creating runs table: %v", err)
	}

	createDeliveriesTableSQL := `
	CREATE TABLE IF NOT EXISTS deliveries (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"run_id" INTEGER,
		"lot_id" TEXT,
		"recipient" TEXT,
		"media" BOOLEAN DEFAULT 0,
		"error" TEXT,
		"sent_at" DATETIME
	);`
	if _, err = db.Exec(createDeliveriesTableSQL); err != nil {
		log.Fatalf("Error creating deliveries table: %v", err)
	}

	return &DBRepository{DB: db}
}

// Close closes the database connection.
func (repo *DBRepository) Close() {
	repo.DB.Close()
}

// StartRun records the beginning of a pass and returns its row id.
func (repo *DBRepository) StartRun(searches []string) (int64, error) {
	res, err := repo.DB.Exec(
		`INSERT INTO runs (started_at, searches) VALUES (?, ?)`,
		time.Now(), strings.Join(searches, ", "),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun stores the final counters for a pass.
func (repo *DBRepository) FinishRun(id int64, lotsFound, lotsNew, sent, failed int) error {
	_, err := repo.DB.Exec(
		`UPDATE runs SET finished_at = ?, lots_found = ?, lots_new = ?, sent = ?, failed = ? WHERE id = ?`,
		time.Now(), lotsFound, lotsNew, sent, failed, id,
	)
	return err
}

// RecordDelivery stores the outcome of one (lot, recipient) send attempt.
func (repo *DBRepository) RecordDelivery(runID int64, lotID, recipient string, media bool, sendErr error) error {
	errText := ""
	if sendErr != nil {
		errText = sendErr.Error()
	}
	stmt, err := repo.DB.Prepare(
		`INSERT INTO deliveries (run_id, lot_id, recipient, media, error, sent_at) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(runID, lotID, recipient, media, errText, time.Now())
	return err
}

// RecentRuns returns the latest runs, newest first.
func (repo *DBRepository) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := repo.DB.Query(`
		SELECT id, started_at, finished_at, searches,
		       lots_found, lots_new, sent, failed
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.Searches,
			&r.LotsFound, &r.LotsNew, &r.Sent, &r.Failed); err != nil {
			log.Printf("Error scanning run row: %v", err)
			continue
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
