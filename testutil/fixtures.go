package testutil

// LegacyLibraryJSON is a catalog file written by older releases, which kept
// boards under "notebooks"
const LegacyLibraryJSON = `{
  "notebooks": {
    "ai-papers": {
      "id": "ai-papers",
      "url": "https://youmind.com/boards/ai-papers",
      "name": "AI Papers",
      "description": "Research papers on LLM agents",
      "topics": ["llm", "agents"],
      "use_count": 4,
      "created_at": "2025-11-02T10:00:00Z",
      "updated_at": "2025-11-03T10:00:00Z"
    },
    "recipes": {
      "id": "recipes",
      "url": "https://youmind.com/boards/recipes",
      "name": "Recipes",
      "description": "Weeknight dinners",
      "topics": ["cooking"]
    }
  },
  "active_notebook_id": "recipes"
}`

// LibraryYAML is a catalog file in the current format
const LibraryYAML = `boards:
  - id: go-notes
    url: https://youmind.com/boards/go-notes
    name: Go Notes
    description: Notes on Go concurrency
    topics: [go, concurrency]
    tags: [work]
  - id: travel
    url: https://youmind.com/boards/travel
    name: Travel
    description: Trip planning
    topics: [travel]
active_board_id: go-notes
`

// BoardListJSON is a bare list of boards
const BoardListJSON = `[
  {"url": "https://youmind.com/boards/one", "name": "One", "description": "first", "topics": ["a"]},
  {"url": "https://youmind.com/boards/two", "name": "Two", "description": "second", "topics": ["b"]}
]`
