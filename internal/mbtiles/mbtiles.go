// Package mbtiles writes tile pyramids to MBTiles (SQLite) files.
package mbtiles

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"
)

// MBTiles is an open tile database
type MBTiles struct {
	db             *sql.DB
	tileInsertStmt *sql.Stmt
}

// Open opens mbtiles at given path and sets name and format
func Open(mbTilesPath string, name string, format string) (*MBTiles, error) {
	db, err := sql.Open("sqlite", mbTilesPath)
	if err != nil {
		return nil, fmt.Errorf("open mbtiles: %w", err)
	}

	// tiles are written from many goroutines, sqlite wants a single writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA application_id = 0x4d504258;
		CREATE TABLE IF NOT EXISTS metadata (name text, value text);
		CREATE UNIQUE INDEX IF NOT EXISTS metadata_name on metadata (name);
		CREATE TABLE IF NOT EXISTS tiles (zoom_level integer, tile_column integer, tile_row integer, tile_data blob);
		CREATE UNIQUE INDEX IF NOT EXISTS tile_index on tiles (zoom_level, tile_column, tile_row);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	tileInsertStmt, err := db.Prepare("INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?);")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare tile insert: %w", err)
	}

	mbTiles := &MBTiles{db: db, tileInsertStmt: tileInsertStmt}

	err = mbTiles.InsertMeta(map[string]string{
		"name":   name,
		"format": format,
	})
	if err != nil {
		mbTiles.Close()
		return nil, err
	}

	return mbTiles, nil
}

// Close releases db file
func (mbTiles *MBTiles) Close() error {
	err := mbTiles.tileInsertStmt.Close()
	if err != nil {
		mbTiles.db.Close()
		return err
	}

	return mbTiles.db.Close()
}

// InsertTile inserts a tile at (z, x, y) in TMS order, row 0 is the southernmost.
func (mbTiles *MBTiles) InsertTile(z, x, y uint, tileData []byte) error {
	_, err := mbTiles.tileInsertStmt.Exec(z, x, y, tileData)
	return err
}

// WriteTile inserts a tile addressed XYZ style, row 0 is the northernmost.
func (mbTiles *MBTiles) WriteTile(z, x, y uint, tileData []byte) error {
	return mbTiles.InsertTile(z, x, (1<<z)-1-y, tileData)
}

// InsertMeta sets metadata entries
func (mbTiles *MBTiles) InsertMeta(entries map[string]string) error {
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)

	tx, err := mbTiles.db.Begin()
	if err != nil {
		return err
	}

	for _, n := range names {
		_, err = tx.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?);", n, entries[n])
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("metadata %s: %w", n, err)
		}
	}

	return tx.Commit()
}

// Meta returns all metadata entries
func (mbTiles *MBTiles) Meta() (map[string]string, error) {
	rows, err := mbTiles.db.Query("SELECT name, value FROM metadata;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := map[string]string{}
	for rows.Next() {
		var n, v string
		if err := rows.Scan(&n, &v); err != nil {
			return nil, err
		}
		meta[n] = v
	}

	return meta, rows.Err()
}

// Tile returns the tile at (z, x, y) in TMS order
func (mbTiles *MBTiles) Tile(z, x, y uint) ([]byte, error) {
	var data []byte
	err := mbTiles.db.QueryRow("SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?;", z, x, y).Scan(&data)
	return data, err
}
