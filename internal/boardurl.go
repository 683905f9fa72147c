package internal

import (
	"net/url"
	"regexp"
	"strings"
)

// contextParams are board URL query keys that pin the chat to one material
var contextParams = map[string]bool{
	"material-id": true,
	"craft-id":    true,
}

// contextKeywords mark questions about the currently opened material
var contextKeywords = []string{
	"当前文章",
	"当前素材",
	"这篇文章",
	"这条素材",
	"当前内容",
	"当前卡片",
	"material",
	"craft",
	"current article",
	"current material",
	"this article",
	"this material",
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeBoardURL is the canonical catalog form of a board URL: material
// and craft context ids and the fragment are dropped, other params are kept.
func NormalizeBoardURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.RawQuery = filterQuery(u.RawQuery)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// HasContextID reports whether a board URL pins a material or craft
func HasContextID(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair != "" && contextParams[queryKey(pair)] {
			return true
		}
	}
	return false
}

// QuestionNeedsContextID reports whether the question is about the current material
func QuestionNeedsContextID(question string) bool {
	q := strings.ToLower(NormalizeText(question))
	for _, keyword := range contextKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}

// ResolveEffectiveBoardURL asks at board level unless the question explicitly
// refers to the material the URL points at.
func ResolveEffectiveBoardURL(boardURL, question string) string {
	if !HasContextID(boardURL) || QuestionNeedsContextID(question) {
		return boardURL
	}
	return NormalizeBoardURL(boardURL)
}

// IsSignInLocation reports whether location left the surface or landed on a sign-in page
func IsSignInLocation(location, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return strings.Contains(location, "sign-in")
	}
	u, err := url.Parse(location)
	if err != nil {
		return true
	}
	host := strings.TrimPrefix(base.Hostname(), "www.")
	if got := u.Hostname(); got != host && !strings.HasSuffix(got, "."+host) {
		return true
	}
	return strings.Contains(location, "sign-in")
}

// Slugify creates a stable, CLI-friendly id
func Slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "board"
	}
	return slug
}

func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" || contextParams[queryKey(pair)] {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	if unescaped, err := url.QueryUnescape(key); err == nil {
		key = unescaped
	}
	return strings.ToLower(key)
}
