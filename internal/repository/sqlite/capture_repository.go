package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"captureserver/internal/model"
)

const captureColumns = `id, filename, filepath, filesize, content_type, width, height, captured_at`

// CaptureRepository implements repository.CaptureRepository for SQLite.
type CaptureRepository struct {
	db *DB
}

// NewCaptureRepository creates a new SQLite capture repository.
func NewCaptureRepository(db *DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

// Upsert stores c, replacing the row of an earlier capture with the same filename,
// and returns the row ID. A rewritten file keeps its original ID.
func (r *CaptureRepository) Upsert(c *model.Capture) (int64, error) {
	var id int64
	err := r.db.write(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO captures (filename, filepath, filesize, content_type, width, height, captured_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(filename) DO UPDATE SET
				filepath = excluded.filepath,
				filesize = excluded.filesize,
				content_type = excluded.content_type,
				width = excluded.width,
				height = excluded.height,
				captured_at = excluded.captured_at
		`, c.Filename, c.FilePath, c.FileSize, c.ContentType, c.Width, c.Height, c.CapturedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert capture: %w", err)
		}

		// LastInsertId is not reliable after the update branch.
		return tx.QueryRow(`SELECT id FROM captures WHERE filename = ?`, c.Filename).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertIgnoreBatch inserts captures in one transaction, skipping filenames already present.
// It returns how many rows were actually added.
func (r *CaptureRepository) InsertIgnoreBatch(captures []model.Capture) (int, error) {
	inserted := 0
	err := r.db.write(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT OR IGNORE INTO captures (filename, filepath, filesize, content_type, width, height, captured_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare capture statement: %w", err)
		}
		defer stmt.Close()

		for _, c := range captures {
			result, err := stmt.Exec(c.Filename, c.FilePath, c.FileSize, c.ContentType, c.Width, c.Height, c.CapturedAt)
			if err != nil {
				return fmt.Errorf("failed to insert capture %s: %w", c.Filename, err)
			}
			if n, err := result.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetByFilename returns nil, nil when no capture has that name.
func (r *CaptureRepository) GetByFilename(filename string) (*model.Capture, error) {
	var c *model.Capture
	err := r.db.read(func(conn *sql.DB) error {
		var err error
		c, err = scanCapture(conn.QueryRow(`SELECT `+captureColumns+` FROM captures WHERE filename = ?`, filename))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}
	return c, nil
}

// GetAll retrieves captures newest first. A limit <= 0 returns everything.
func (r *CaptureRepository) GetAll(limit, offset int) ([]model.Capture, error) {
	query := `SELECT ` + captureColumns + ` FROM captures ORDER BY captured_at DESC, id DESC`
	args := []interface{}{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)

		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}

	var captures []model.Capture
	err := r.db.read(func(conn *sql.DB) error {
		rows, err := conn.Query(query, args...)
		if err != nil {
			return fmt.Errorf("failed to query captures: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCapture(rows)
			if err != nil {
				return fmt.Errorf("failed to scan capture: %w", err)
			}
			captures = append(captures, *c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return captures, nil
}

// Count returns the number of catalogued captures.
func (r *CaptureRepository) Count() (int, error) {
	var count int
	err := r.db.read(func(conn *sql.DB) error {
		return conn.QueryRow(`SELECT COUNT(*) FROM captures`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// TotalSize returns the sum of all catalogued file sizes in bytes.
func (r *CaptureRepository) TotalSize() (int64, error) {
	var total int64
	err := r.db.read(func(conn *sql.DB) error {
		return conn.QueryRow(`SELECT COALESCE(SUM(filesize), 0) FROM captures`).Scan(&total)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sum capture sizes: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCapture(row rowScanner) (*model.Capture, error) {
	var c model.Capture
	if err := row.Scan(&c.ID, &c.Filename, &c.FilePath, &c.FileSize, &c.ContentType, &c.Width, &c.Height, &c.CapturedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
