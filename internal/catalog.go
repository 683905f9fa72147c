package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const activeBoardKey = "active_board_id"

const boardColumns = `id, url, name, description, topics, content_types, use_cases, tags, created_at, updated_at, use_count, last_used`

// Catalog is the local library of boards, with one optional active board
type Catalog struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenCatalog opens the catalog database at path
func OpenCatalog(path string) (*Catalog, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(db, path), nil
}

// NewCatalog wraps an already migrated database
func NewCatalog(db *sql.DB, path string) *Catalog {
	return &Catalog{db: db, path: path, now: time.Now}
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database location
func (c *Catalog) Path() string {
	return c.path
}

// AddBoard stores a new board under a unique slug of its name.
// The first board of an empty catalog becomes active.
func (c *Catalog) AddBoard(in BoardInput) (*Board, error) {
	id, err := c.uniqueID(Slugify(in.Name))
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	board := &Board{
		ID:           id,
		URL:          NormalizeBoardURL(in.URL),
		Name:         in.Name,
		Description:  in.Description,
		Topics:       nonNil(in.Topics),
		ContentTypes: nonNil(in.ContentTypes),
		UseCases:     nonNil(in.UseCases),
		Tags:         nonNil(in.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.insert(board); err != nil {
		return nil, err
	}

	count, err := c.count()
	if err != nil {
		return nil, err
	}
	if count == 1 {
		if err := c.setActive(id); err != nil {
			return nil, err
		}
	}

	LogInfo("Added board: %s (%s)", board.Name, board.ID)
	return board, nil
}

// UpdateBoard applies the non-nil fields of upd
func (c *Catalog) UpdateBoard(id string, upd BoardUpdate) (*Board, error) {
	board, err := c.GetBoard(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		board.Name = *upd.Name
	}
	if upd.Description != nil {
		board.Description = *upd.Description
	}
	if upd.URL != nil {
		board.URL = *upd.URL
	}
	if upd.Topics != nil {
		board.Topics = upd.Topics
	}
	if upd.ContentTypes != nil {
		board.ContentTypes = upd.ContentTypes
	}
	if upd.UseCases != nil {
		board.UseCases = upd.UseCases
	}
	if upd.Tags != nil {
		board.Tags = upd.Tags
	}
	board.UpdatedAt = c.now().UTC()

	if err := c.save(board); err != nil {
		return nil, err
	}
	LogInfo("Updated board: %s", board.Name)
	return board, nil
}

// RemoveBoard deletes a board. If it was active, the oldest remaining board becomes active.
func (c *Catalog) RemoveBoard(id string) error {
	res, err := c.db.Exec(`DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return c.storageErr("delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBoardNotFound, id)
	}

	activeID, err := c.ActiveBoardID()
	if err != nil {
		return err
	}
	if activeID == id {
		next := ""
		err := c.db.QueryRow(`SELECT id FROM boards ORDER BY seq LIMIT 1`).Scan(&next)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return c.storageErr("read", err)
		}
		if err := c.setActive(next); err != nil {
			return err
		}
	}

	LogInfo("Removed board: %s", id)
	return nil
}

// GetBoard returns one board or ErrBoardNotFound
func (c *Catalog) GetBoard(id string) (*Board, error) {
	row := c.db.QueryRow(`SELECT `+boardColumns+` FROM boards WHERE id = ?`, id)
	board, err := scanBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, id)
	}
	if err != nil {
		return nil, c.storageErr("read", err)
	}
	return board, nil
}

// ListBoards returns all boards in insertion order
func (c *Catalog) ListBoards() ([]*Board, error) {
	rows, err := c.db.Query(`SELECT ` + boardColumns + ` FROM boards ORDER BY seq`)
	if err != nil {
		return nil, c.storageErr("read", err)
	}
	defer rows.Close()

	boards := make([]*Board, 0)
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, c.storageErr("read", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, c.storageErr("read", err)
	}
	return boards, nil
}

// SearchBoards returns boards whose name, description, topics, tags or use
// cases contain query, case-insensitively
func (c *Catalog) SearchBoards(query string) ([]*Board, error) {
	boards, err := c.ListBoards()
	if err != nil {
		return nil, err
	}
	matches := make([]*Board, 0)
	for _, board := range boards {
		if board.Matches(query) {
			matches = append(matches, board)
		}
	}
	return matches, nil
}

// FindBoardByURL returns the board whose normalized URL equals url's, or nil
func (c *Catalog) FindBoardByURL(url string) (*Board, error) {
	target := NormalizeBoardURL(url)
	boards, err := c.ListBoards()
	if err != nil {
		return nil, err
	}
	for _, board := range boards {
		if NormalizeBoardURL(board.URL) == target {
			return board, nil
		}
	}
	return nil, nil
}

// ActivateBoard makes id the active board
func (c *Catalog) ActivateBoard(id string) (*Board, error) {
	board, err := c.GetBoard(id)
	if err != nil {
		return nil, err
	}
	if err := c.setActive(id); err != nil {
		return nil, err
	}
	LogInfo("Activated board: %s", board.Name)
	return board, nil
}

// ActiveBoardID returns the active board id, "" if none
func (c *Catalog) ActiveBoardID() (string, error) {
	var value sql.NullString
	err := c.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, activeBoardKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", c.storageErr("read", err)
	}
	return value.String, nil
}

// ActiveBoard returns the active board, or nil if none is set
func (c *Catalog) ActiveBoard() (*Board, error) {
	id, err := c.ActiveBoardID()
	if err != nil || id == "" {
		return nil, err
	}
	board, err := c.GetBoard(id)
	if errors.Is(err, ErrBoardNotFound) {
		return nil, nil
	}
	return board, err
}

// IncrementUseCount records one more round asked against the board
func (c *Catalog) IncrementUseCount(id string) (*Board, error) {
	board, err := c.GetBoard(id)
	if err != nil {
		return nil, err
	}
	now := c.now().UTC()
	board.UseCount++
	board.LastUsed = &now
	if err := c.save(board); err != nil {
		return nil, err
	}
	return board, nil
}

// Stats summarizes the catalog
func (c *Catalog) Stats() (*CatalogStats, error) {
	boards, err := c.ListBoards()
	if err != nil {
		return nil, err
	}
	active, err := c.ActiveBoard()
	if err != nil {
		return nil, err
	}

	stats := &CatalogStats{
		TotalBoards: len(boards),
		ActiveBoard: active,
		LibraryPath: c.path,
	}
	topics := make(map[string]struct{})
	for _, board := range boards {
		for _, topic := range board.Topics {
			topics[topic] = struct{}{}
		}
		stats.TotalUseCount += board.UseCount
		if stats.MostUsedBoard == nil || board.UseCount > stats.MostUsedBoard.UseCount {
			stats.MostUsedBoard = board
		}
	}
	stats.TotalTopics = len(topics)
	return stats, nil
}

// ImportBoards stores boards as they are, keeping timestamps and counters.
// Ids that already exist get a numeric suffix. With replace the catalog is
// emptied first. activeID, if it names an imported board, becomes active.
func (c *Catalog) ImportBoards(boards []*Board, activeID string, replace bool) (int, error) {
	if replace {
		if _, err := c.db.Exec(`DELETE FROM boards`); err != nil {
			return 0, c.storageErr("delete", err)
		}
		if err := c.setActive(""); err != nil {
			return 0, err
		}
	}

	renamed := make(map[string]string)
	imported := 0
	for _, b := range boards {
		board := *b
		base := board.ID
		if base == "" {
			base = Slugify(board.Name)
		}
		id, err := c.uniqueID(base)
		if err != nil {
			return imported, err
		}
		renamed[b.ID] = id
		board.ID = id
		board.URL = NormalizeBoardURL(board.URL)
		if board.CreatedAt.IsZero() {
			board.CreatedAt = c.now().UTC()
		}
		if board.UpdatedAt.IsZero() {
			board.UpdatedAt = board.CreatedAt
		}
		board.Topics = nonNil(board.Topics)
		board.ContentTypes = nonNil(board.ContentTypes)
		board.UseCases = nonNil(board.UseCases)
		board.Tags = nonNil(board.Tags)
		if err := c.insert(&board); err != nil {
			return imported, err
		}
		imported++
	}

	if id, ok := renamed[activeID]; ok && activeID != "" {
		if err := c.setActive(id); err != nil {
			return imported, err
		}
	} else if current, err := c.ActiveBoard(); err == nil && current == nil {
		var first string
		if err := c.db.QueryRow(`SELECT id FROM boards ORDER BY seq LIMIT 1`).Scan(&first); err == nil {
			if err := c.setActive(first); err != nil {
				return imported, err
			}
		}
	}
	return imported, nil
}

func (c *Catalog) uniqueID(base string) (string, error) {
	taken := func(id string) (bool, error) {
		var n int
		if err := c.db.QueryRow(`SELECT COUNT(*) FROM boards WHERE id = ?`, id).Scan(&n); err != nil {
			return false, c.storageErr("read", err)
		}
		return n > 0, nil
	}

	exists, err := taken(base)
	if err != nil || !exists {
		return base, err
	}
	for idx := 2; ; idx++ {
		candidate := fmt.Sprintf("%s-%d", base, idx)
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func (c *Catalog) count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM boards`).Scan(&n); err != nil {
		return 0, c.storageErr("read", err)
	}
	return n, nil
}

func (c *Catalog) setActive(id string) error {
	var err error
	if id == "" {
		_, err = c.db.Exec(`DELETE FROM settings WHERE key = ?`, activeBoardKey)
	} else {
		_, err = c.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, activeBoardKey, id)
	}
	if err != nil {
		return c.storageErr("write", err)
	}
	return nil
}

func (c *Catalog) insert(b *Board) error {
	args, err := boardArgs(b)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`INSERT INTO boards (`+boardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return c.storageErr("write", err)
	}
	return nil
}

func (c *Catalog) save(b *Board) error {
	args, err := boardArgs(b)
	if err != nil {
		return err
	}
	// id goes last for the WHERE clause
	args = append(args[1:], args[0])
	_, err = c.db.Exec(`UPDATE boards SET url = ?, name = ?, description = ?, topics = ?, content_types = ?,
		use_cases = ?, tags = ?, created_at = ?, updated_at = ?, use_count = ?, last_used = ? WHERE id = ?`, args...)
	if err != nil {
		return c.storageErr("write", err)
	}
	return nil
}

func (c *Catalog) storageErr(op string, err error) error {
	return &StorageError{Path: c.path, Op: op, Err: err}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBoard(row rowScanner) (*Board, error) {
	var (
		b                                    Board
		topics, contentTypes, useCases, tags string
		createdAt, updatedAt                 string
		lastUsed                             sql.NullString
	)
	if err := row.Scan(&b.ID, &b.URL, &b.Name, &b.Description, &topics, &contentTypes, &useCases, &tags,
		&createdAt, &updatedAt, &b.UseCount, &lastUsed); err != nil {
		return nil, err
	}

	lists := []struct {
		raw string
		dst *[]string
	}{
		{topics, &b.Topics},
		{contentTypes, &b.ContentTypes},
		{useCases, &b.UseCases},
		{tags, &b.Tags},
	}
	for _, l := range lists {
		if err := json.Unmarshal([]byte(l.raw), l.dst); err != nil {
			return nil, &ParseError{Source: "catalog", Key: b.ID, Err: err}
		}
		*l.dst = nonNil(*l.dst)
	}

	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	if lastUsed.Valid && lastUsed.String != "" {
		t := parseTime(lastUsed.String)
		b.LastUsed = &t
	}
	return &b, nil
}

func boardArgs(b *Board) ([]interface{}, error) {
	encode := func(list []string) (string, error) {
		data, err := json.Marshal(nonNil(list))
		return string(data), err
	}
	var encoded [4]string
	for i, list := range [][]string{b.Topics, b.ContentTypes, b.UseCases, b.Tags} {
		s, err := encode(list)
		if err != nil {
			return nil, fmt.Errorf("encode board %s: %w", b.ID, err)
		}
		encoded[i] = s
	}

	var lastUsed interface{}
	if b.LastUsed != nil {
		lastUsed = b.LastUsed.UTC().Format(time.RFC3339Nano)
	}
	return []interface{}{
		b.ID, b.URL, b.Name, b.Description,
		encoded[0], encoded[1], encoded[2], encoded[3],
		b.CreatedAt.UTC().Format(time.RFC3339Nano), b.UpdatedAt.UTC().Format(time.RFC3339Nano),
		b.UseCount, lastUsed,
	}, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
