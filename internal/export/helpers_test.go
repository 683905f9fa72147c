package export

import (
	"time"

	"github.com/iksnae/youmind-session/internal"
)

var testExportTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testLibrary() *Library {
	used := time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC)
	return &Library{
		Boards: []*internal.Board{
			{
				ID:          "ai-papers",
				URL:         "https://youmind.com/boards/ai-papers",
				Name:        "AI Papers",
				Description: "Research on **agents**",
				Topics:      []string{"llm", "agents"},
				Tags:        []string{"research"},
				CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
				UseCount:    3,
				LastUsed:    &used,
			},
			{
				ID:        "recipes",
				URL:       "https://youmind.com/boards/recipes",
				Name:      "Recipes",
				Topics:    []string{"cooking"},
				CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			},
		},
		ActiveBoardID: "recipes",
		ExportedAt:    testExportTime,
	}
}
