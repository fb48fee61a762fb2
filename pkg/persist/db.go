// Package persist stores saved career trees and per-node notes in a local
// sqlite database. Trees arrive in hierarchical form; rebuilding that form
// from the current flow graph is the loader package's job.
package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/careermap/pathview/pkg/model"
)

// DB handles saved-tree persistence.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the database at the given path.
func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pdb := &DB{db: db}
	if err := pdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return pdb, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_trees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		tree_type TEXT NOT NULL,
		profile TEXT DEFAULT '',
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saved_trees_type ON saved_trees(tree_type);

	CREATE TABLE IF NOT EXISTS node_notes (
		node_id TEXT PRIMARY KEY,
		note TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

// SavedTree is a saved-tree row without the payload.
type SavedTree struct {
	ID        int64
	Name      string
	TreeType  string
	Profile   string
	CreatedAt time.Time
}

// SaveTree stores a hierarchical tree under a name and type tag, returning
// the new row ID.
func (d *DB) SaveTree(name, treeType, profile string, tree model.TreeNode) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("saved tree needs a name")
	}
	payload, err := json.Marshal(tree)
	if err != nil {
		return 0, fmt.Errorf("encode tree: %w", err)
	}

	result, err := d.db.Exec(`
		INSERT INTO saved_trees (name, tree_type, profile, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, name, treeType, profile, string(payload), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert saved tree: %w", err)
	}
	return result.LastInsertId()
}

// GetTree loads a saved tree by ID.
func (d *DB) GetTree(id int64) (model.TreeNode, SavedTree, error) {
	var meta SavedTree
	var payload string
	err := d.db.QueryRow(`
		SELECT id, name, tree_type, profile, payload, created_at
		FROM saved_trees WHERE id = ?
	`, id).Scan(&meta.ID, &meta.Name, &meta.TreeType, &meta.Profile, &payload, &meta.CreatedAt)
	if err == sql.ErrNoRows {
		return model.TreeNode{}, meta, fmt.Errorf("saved tree %d not found", id)
	}
	if err != nil {
		return model.TreeNode{}, meta, fmt.Errorf("load saved tree: %w", err)
	}

	var tree model.TreeNode
	if err := json.Unmarshal([]byte(payload), &tree); err != nil {
		return model.TreeNode{}, meta, fmt.Errorf("decode saved tree %d: %w", id, err)
	}
	return tree, meta, nil
}

// ListTrees returns saved-tree metadata, newest first.
func (d *DB) ListTrees() ([]SavedTree, error) {
	rows, err := d.db.Query(`
		SELECT id, name, tree_type, profile, created_at
		FROM saved_trees ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list saved trees: %w", err)
	}
	defer rows.Close()

	var trees []SavedTree
	for rows.Next() {
		var t SavedTree
		if err := rows.Scan(&t.ID, &t.Name, &t.TreeType, &t.Profile, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved tree: %w", err)
		}
		trees = append(trees, t)
	}
	return trees, rows.Err()
}

// DeleteTree removes a saved tree.
func (d *DB) DeleteTree(id int64) error {
	result, err := d.db.Exec(`DELETE FROM saved_trees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete saved tree: %w", err)
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("saved tree %d not found", id)
	}
	return err
}

// SaveNote upserts the note attached to a node.
func (d *DB) SaveNote(nodeID, note string) error {
	if nodeID == "" {
		return fmt.Errorf("note needs a node id")
	}
	_, err := d.db.Exec(`
		INSERT INTO node_notes (node_id, note, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET note = excluded.note, updated_at = excluded.updated_at
	`, nodeID, note, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

// GetNote returns the note for a node, empty when none exists.
func (d *DB) GetNote(nodeID string) (string, error) {
	var note string
	err := d.db.QueryRow(`SELECT note FROM node_notes WHERE node_id = ?`, nodeID).Scan(&note)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load note: %w", err)
	}
	return note, nil
}
