package internal

import (
	"fmt"
	"strings"
)

// BoardTarget is the board a question is sent to
type BoardTarget struct {
	URL   string
	Board *Board // nil when the URL was given directly
}

// ResolveBoard picks the board for a question: an explicit URL wins, then an
// explicit catalog id, then the active board.
func ResolveBoard(catalog *Catalog, boardURL, boardID string) (*BoardTarget, error) {
	if url := strings.TrimSpace(boardURL); url != "" {
		return &BoardTarget{URL: url}, nil
	}

	if catalog == nil {
		return nil, ErrNoBoards
	}

	if boardID != "" {
		board, err := catalog.GetBoard(boardID)
		if err != nil {
			return nil, err
		}
		return &BoardTarget{URL: board.URL, Board: board}, nil
	}

	board, err := catalog.ActiveBoard()
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("%w: add one with `board add` or pass --board-url", ErrNoBoards)
	}
	return &BoardTarget{URL: board.URL, Board: board}, nil
}

// RecordUse bumps the use counter of a catalog board after a successful round
func (t *BoardTarget) RecordUse(catalog *Catalog) {
	if t.Board == nil || catalog == nil {
		return
	}
	if _, err := catalog.IncrementUseCount(t.Board.ID); err != nil {
		LogWarn("Failed to record board use: %v", err)
	}
}
