// Package capture persists frames crossing the medium into a sqlite
// database, wireshark-style. It attaches to the medium as a tap, so the
// delivery path itself stays free of I/O.
package capture

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"lanemu/pkg/link"
	"lanemu/pkg/medium"
)

// Entry is one captured buffer. Decoded is false when the buffer did not
// parse as a frame; the raw payload is stored either way.
type Entry struct {
	ID          int64
	CapturedAt  time.Time
	SrcEndpoint string
	DstEndpoint string
	SrcAddr     string
	DstAddr     string
	Length      int
	Checksum    uint16
	ChecksumOK  bool
	Decoded     bool
	Payload     []byte
}

// Log is a sqlite-backed capture of medium traffic.
type Log struct {
	db *sql.DB
}

// Open creates or opens a capture database at path and ensures the schema.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("capture: open database: %w", err)
	}
	// WAL keeps readers from blocking the recording tap.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("capture: enable WAL: %w", err)
	}
	l := &Log{db: db}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Log) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS frames (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		captured_at INTEGER NOT NULL,
		src_endpoint TEXT NOT NULL,
		dst_endpoint TEXT NOT NULL,
		src_addr TEXT,
		dst_addr TEXT,
		length INTEGER,
		checksum INTEGER,
		checksum_ok INTEGER,
		decoded INTEGER NOT NULL,
		payload BLOB
	);

	CREATE INDEX IF NOT EXISTS idx_frames_dst ON frames(dst_endpoint);
	CREATE INDEX IF NOT EXISTS idx_frames_time ON frames(captured_at);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("capture: create schema: %w", err)
	}
	return nil
}

// Record stores one medium event. Buffers that decode as frames are indexed
// by their link-layer fields; everything else is kept raw with Decoded set
// to false, so a corrupt buffer is still inspectable later.
func (l *Log) Record(ev medium.Event) error {
	var (
		srcAddr, dstAddr sql.NullString
		length           sql.NullInt64
		checksum         sql.NullInt64
		checksumOK       sql.NullBool
		decoded          bool
		payload          = ev.Buf
	)
	if f, err := link.Decode(ev.Buf); err == nil {
		decoded = true
		srcAddr = sql.NullString{String: f.Src.String(), Valid: true}
		dstAddr = sql.NullString{String: f.Dst.String(), Valid: true}
		length = sql.NullInt64{Int64: int64(f.Length), Valid: true}
		checksum = sql.NullInt64{Int64: int64(f.Checksum), Valid: true}
		checksumOK = sql.NullBool{Bool: f.VerifyChecksum(), Valid: true}
		payload = f.Payload
	}

	query := `
		INSERT INTO frames (captured_at, src_endpoint, dst_endpoint, src_addr, dst_addr, length, checksum, checksum_ok, decoded, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.Exec(query, ev.At.UnixMilli(), ev.From, ev.To,
		srcAddr, dstAddr, length, checksum, checksumOK, decoded, payload)
	if err != nil {
		return fmt.Errorf("capture: record frame: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (l *Log) Recent(n int) ([]Entry, error) {
	query := `
		SELECT id, captured_at, src_endpoint, dst_endpoint, src_addr, dst_addr, length, checksum, checksum_ok, decoded, payload
		FROM frames ORDER BY id DESC LIMIT ?
	`
	rows, err := l.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("capture: query recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			ts         int64
			srcAddr    sql.NullString
			dstAddr    sql.NullString
			length     sql.NullInt64
			checksum   sql.NullInt64
			checksumOK sql.NullBool
		)
		if err := rows.Scan(&e.ID, &ts, &e.SrcEndpoint, &e.DstEndpoint,
			&srcAddr, &dstAddr, &length, &checksum, &checksumOK, &e.Decoded, &e.Payload); err != nil {
			return nil, fmt.Errorf("capture: scan row: %w", err)
		}
		e.CapturedAt = time.UnixMilli(ts)
		e.SrcAddr = srcAddr.String
		e.DstAddr = dstAddr.String
		e.Length = int(length.Int64)
		e.Checksum = uint16(checksum.Int64)
		e.ChecksumOK = checksumOK.Bool
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountFor returns how many buffers were captured en route to endpoint.
func (l *Log) CountFor(endpoint string) (int, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM frames WHERE dst_endpoint = ?`, endpoint).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("capture: count for %q: %w", endpoint, err)
	}
	return n, nil
}

// Close closes the underlying database.
func (l *Log) Close() error { return l.db.Close() }
