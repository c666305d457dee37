package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"StockSentinel/internal/model"
)

// SQLiteRecorder persists snapshots and alerts to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			code              TEXT NOT NULL,
			bar_time          TEXT,
			price             REAL,
			volume            REAL,
			kdj_k             REAL,
			kdj_d             REAL,
			kdj_j             REAL,
			weekly_j          REAL,
			bbi               REAL,
			white_line        REAL,
			yellow_line       REAL,
			golden_cross      INTEGER,
			death_cross       INTEGER,
			buy_signal        INTEGER,
			sell_signal       INTEGER,
			sell_days         INTEGER,
			stage_high_signal INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_code_ts ON indicator_snapshots(code, timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			code      TEXT NOT NULL,
			kind      TEXT,
			bar_time  TEXT,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_code_ts ON alert_events(code, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable stores a missing indicator as NULL.
func nullable(ok bool, v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func (r *SQLiteRecorder) RecordSnapshot(snap *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var k, d, j, weeklyJ sql.NullFloat64
	if snap.KDJ != nil {
		k, d, j = nullable(true, snap.KDJ.K), nullable(true, snap.KDJ.D), nullable(true, snap.KDJ.J)
	}
	if snap.WeeklyKDJ != nil {
		weeklyJ = nullable(true, snap.WeeklyKDJ.J)
	}
	var white, yellow sql.NullFloat64
	var golden, death bool
	if t := snap.Trend; t != nil {
		white, yellow = nullable(true, t.WhiteLine), nullable(true, t.YellowLine)
		golden, death = t.IsGoldenCross, t.IsDeathCross
	}

	_, err := r.db.Exec(`INSERT INTO indicator_snapshots
		(timestamp, code, bar_time, price, volume, kdj_k, kdj_d, kdj_j, weekly_j, bbi,
		 white_line, yellow_line, golden_cross, death_cross,
		 buy_signal, sell_signal, sell_days, stage_high_signal)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Code, snap.BarTime.Format(model.DateLayout),
		snap.CurrentPrice, snap.Volume, k, d, j, weeklyJ,
		nullable(!snap.BBI.IsZero(), snap.BBI.BBI),
		white, yellow, golden, death,
		snap.Buy.HasBuySignal, snap.Sell.HasSellSignal,
		snap.Sell.ConsecutiveDaysBelowWhiteLine, snap.StageHigh.IsSellSignal,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(a model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, code, kind, bar_time, message)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), a.Code, string(a.Kind), a.BarDate, a.Message,
	)
	return err
}

// RecentAlerts returns up to limit alerts for code, newest first.
func (r *SQLiteRecorder) RecentAlerts(code string, limit int) ([]AlertRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, code, kind, bar_time, message
		FROM alert_events WHERE code = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, code, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		var ts int64
		var kind string
		if err := rows.Scan(&ts, &rec.Code, &kind, &rec.BarDate, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.Kind = model.AlertKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
