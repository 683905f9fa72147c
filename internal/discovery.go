package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultSummaryPrompt asks the board for a short overview (pass 1)
	DefaultSummaryPrompt = "请阅读当前board，简要总结：核心主题、资料类型、典型使用场景。输出简洁要点。"
	// DefaultSinglePassPrompt asks for the metadata JSON directly
	DefaultSinglePassPrompt = `请阅读当前board，返回严格JSON（不要额外文字）： {"name":"简洁名称","description":"1-2句描述","topics":["主题1","主题2","主题3"]}`
	jsonPromptTemplate      = `请基于以下board摘要，严格输出JSON（不要任何额外文本）： {"name":"简洁名称","description":"1-2句描述","topics":["主题1","主题2","主题3"]}` + "\n摘要：%s"

	summaryPromptLimit = 1500
	maxNameRunes       = 80
	maxDescRunes       = 300
	maxTopics          = 10
	fallbackTopicCount = 6
)

// Discovery strategies reported by SmartAdd
const (
	DiscoverySinglePass      = "single_pass_structured"
	DiscoveryTwoPassJSON     = "two_pass_json"
	DiscoveryTwoPassFallback = "two_pass_fallback_summary"
)

var (
	fencedJSON        = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	widestBraces      = regexp.MustCompile(`(?s)(\{.*\})`)
	topicSplitter     = regexp.MustCompile(`[,，;；\n]+`)
	englishToken      = regexp.MustCompile(`[A-Za-z][A-Za-z0-9-]{2,}`)
	englishTopic      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{1,}$`)
	placeholderName   = regexp.MustCompile(`^根据这个board|^我需要先查看|核心研究主题|^请阅读`)
	placeholderDesc   = regexp.MustCompile(`^根据这个board|^我需要先查看`)
	headingTrimCutset = " -#*:\t"
)

// BoardMetadata is what discovery extracts from a board answer
type BoardMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

// BoardAsker runs one question-answer round
type BoardAsker interface {
	Ask(ctx context.Context, req RoundRequest) (*RoundResult, error)
}

// SmartAddOptions controls SmartAdd
type SmartAddOptions struct {
	URL               string
	Headless          bool
	Activate          bool
	Prompt            string // pass 1 summary prompt, DefaultSummaryPrompt if empty
	JSONPrompt        string // structured prompt, built from the summary if empty
	SinglePass        bool
	AllowDuplicateURL bool
	Timeout           time.Duration
}

// SmartAddResult reports what SmartAdd did
type SmartAddResult struct {
	Status              string         `json:"status"` // "added" or "exists"
	Board               *Board         `json:"board"`
	DiscoverySummary    string         `json:"discovery_summary,omitempty"`
	DiscoveryStructured string         `json:"discovery_structured,omitempty"`
	DiscoveryUsed       string         `json:"discovery_used,omitempty"`
	Metadata            *BoardMetadata `json:"metadata"`
}

// SmartAdd asks the board to describe itself and adds it to the catalog.
// Two-pass mode asks for a summary first and then for JSON built from that
// summary, falling back to the summary when the JSON pass yields nothing usable.
func SmartAdd(ctx context.Context, catalog *Catalog, asker BoardAsker, opts SmartAddOptions) (*SmartAddResult, error) {
	existing, err := catalog.FindBoardByURL(opts.URL)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.AllowDuplicateURL {
		if opts.Activate {
			if existing, err = catalog.ActivateBoard(existing.ID); err != nil {
				return nil, err
			}
		}
		return &SmartAddResult{Status: "exists", Board: existing}, nil
	}

	ask := func(question string) string {
		res, err := asker.Ask(ctx, RoundRequest{
			Question: question,
			BoardURL: opts.URL,
			Headless: opts.Headless,
			Timeout:  opts.Timeout,
		})
		if err != nil {
			LogWarn("Discovery question failed: %v", err)
			return ""
		}
		return CleanDiscoveryAnswer(res.Answer)
	}

	result := &SmartAddResult{Status: "added"}
	var metadata BoardMetadata
	if opts.SinglePass {
		metadata, err = discoverSinglePass(ask, opts, result)
	} else {
		metadata, err = discoverTwoPass(ask, opts, result)
	}
	if err != nil {
		return nil, err
	}
	if len(metadata.Topics) == 0 {
		return nil, errors.New("smart add failed: metadata topics are empty")
	}

	board, err := catalog.AddBoard(BoardInput{
		URL:         opts.URL,
		Name:        metadata.Name,
		Description: metadata.Description,
		Topics:      metadata.Topics,
	})
	if err != nil {
		return nil, err
	}
	if opts.Activate {
		if board, err = catalog.ActivateBoard(board.ID); err != nil {
			return nil, err
		}
	}

	result.Board = board
	result.Metadata = &metadata
	return result, nil
}

func discoverSinglePass(ask func(string) string, opts SmartAddOptions, result *SmartAddResult) (BoardMetadata, error) {
	prompt := opts.JSONPrompt
	if prompt == "" {
		prompt = DefaultSinglePassPrompt
	}
	answer := ask(prompt)
	if answer == "" {
		return BoardMetadata{}, errors.New("smart add discovery failed: could not get board answer")
	}
	result.DiscoveryStructured = answer
	result.DiscoveryUsed = DiscoverySinglePass
	return MetadataFromDiscovery(answer, opts.URL), nil
}

func discoverTwoPass(ask func(string) string, opts SmartAddOptions, result *SmartAddResult) (BoardMetadata, error) {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultSummaryPrompt
	}
	summary := ask(prompt)
	if summary == "" {
		return BoardMetadata{}, errors.New("smart add discovery failed at pass 1 (summary)")
	}
	result.DiscoverySummary = summary

	jsonPrompt := opts.JSONPrompt
	if jsonPrompt == "" {
		jsonPrompt = fmt.Sprintf(jsonPromptTemplate, truncateRunes(NormalizeText(summary), summaryPromptLimit))
	}
	structured := ask(jsonPrompt)
	result.DiscoveryStructured = structured

	if structured != "" && ExtractJSONBlock(structured) != nil {
		result.DiscoveryUsed = DiscoveryTwoPassJSON
		return MetadataFromDiscovery(structured, opts.URL), nil
	}
	result.DiscoveryUsed = DiscoveryTwoPassFallback
	return MetadataFromDiscovery(summary, opts.URL), nil
}

// CleanDiscoveryAnswer drops the follow-up reminder and surrounding space
func CleanDiscoveryAnswer(answer string) string {
	if before, _, found := strings.Cut(answer, FollowUpMarker); found {
		answer = before
	}
	return strings.TrimSpace(answer)
}

// ExtractJSONBlock returns the first JSON object found in a fenced code block
// or in the widest {...} span of text, or nil.
func ExtractJSONBlock(text string) map[string]interface{} {
	var candidates []string
	for _, m := range fencedJSON.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range widestBraces.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}

	for _, raw := range candidates {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &data); err == nil && data != nil {
			return data
		}
	}
	return nil
}

// NormalizeTopics accepts a list or a delimiter-separated string and returns
// trimmed topics, de-duplicated case-insensitively in first-seen order.
func NormalizeTopics(raw interface{}) []string {
	var parts []string
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			parts = append(parts, strings.TrimSpace(fmt.Sprint(item)))
		}
	case []string:
		for _, item := range v {
			parts = append(parts, strings.TrimSpace(item))
		}
	case string:
		for _, item := range topicSplitter.Split(v, -1) {
			parts = append(parts, strings.TrimSpace(item))
		}
	}

	seen := make(map[string]bool)
	topics := make([]string, 0, len(parts))
	for _, item := range parts {
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		topics = append(topics, item)
	}
	return topics
}

// MetadataFromDiscovery builds name, description and topics from a discovery
// answer, using its JSON payload when there is one and text heuristics otherwise.
func MetadataFromDiscovery(answer, boardURL string) BoardMetadata {
	answer = CleanDiscoveryAnswer(answer)

	var meta BoardMetadata
	if payload := ExtractJSONBlock(answer); payload != nil {
		meta.Name = strings.TrimSpace(stringField(payload, "name"))
		meta.Description = strings.TrimSpace(stringField(payload, "description"))
		meta.Topics = NormalizeTopics(payload["topics"])
	}

	if meta.Description == "" {
		if lines := nonEmptyLines(answer, " \t\r"); len(lines) > 0 {
			meta.Description = lines[0]
		} else {
			meta.Description = "Youmind board discovered via Smart Add."
		}
	}

	if meta.Name == "" {
		meta.Name = urlSuffixName(boardURL)
		for _, line := range nonEmptyLines(answer, headingTrimCutset) {
			if n := utf8.RuneCountInString(line); n >= 2 && n <= 42 {
				meta.Name = line
				break
			}
		}
	}

	if len(meta.Topics) == 0 {
		meta.Topics = fallbackTopics(answer)
	}

	if looksLikePlaceholderName(meta.Name) {
		var english []string
		for _, topic := range meta.Topics {
			if englishTopic.MatchString(topic) {
				english = append(english, strings.ToLower(topic))
			}
		}
		if len(english) > 0 {
			if len(english) > 3 {
				english = english[:3]
			}
			meta.Name = strings.Join(english, "-") + "-board"
		} else {
			meta.Name = urlSuffixName(boardURL)
		}
	}

	if looksLikePlaceholderDescription(meta.Description) {
		for _, line := range nonEmptyLines(answer, headingTrimCutset) {
			if !placeholderDesc.MatchString(line) && utf8.RuneCountInString(line) >= 8 {
				meta.Description = line
				break
			}
		}
	}

	meta.Name = truncateRunes(meta.Name, maxNameRunes)
	meta.Description = truncateRunes(meta.Description, maxDescRunes)
	if len(meta.Topics) > maxTopics {
		meta.Topics = meta.Topics[:maxTopics]
	}
	return meta
}

func looksLikePlaceholderName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) > 48 || strings.HasSuffix(name, "：") {
		return true
	}
	return placeholderName.MatchString(name)
}

func looksLikePlaceholderDescription(description string) bool {
	return description == "" || placeholderDesc.MatchString(description)
}

func fallbackTopics(answer string) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, token := range englishToken.FindAllString(answer, -1) {
		lower := strings.ToLower(token)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		topics = append(topics, lower)
		if len(topics) >= fallbackTopicCount {
			break
		}
	}
	if len(topics) == 0 {
		return []string{"youmind", "board"}
	}
	return topics
}

func urlSuffixName(boardURL string) string {
	trimmed := strings.TrimRight(boardURL, "/")
	suffix := trimmed[strings.LastIndex(trimmed, "/")+1:]
	return "youmind-board-" + truncateRunes(suffix, 8)
}

func nonEmptyLines(text, cutset string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.Trim(line, cutset))
	}
	return lines
}

func stringField(payload map[string]interface{}, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
