package skills

import (
	"regexp"
	"sort"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeTag приводит тег (язык, экспертизу, роль) к каноническому виду:
// - нижний регистр
// - обрезка пробелов по краям
// - схлопывание внутренних пробелов
func NormalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return reSpaces.ReplaceAllString(s, " ")
}

// NormalizeSet нормализует теги, убирает пустые и дубликаты, сортирует.
// Для пустого входа возвращает пустой (не nil) срез.
func NormalizeSet(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Subset reports whether every tag in required is present in have.
// Both sides are expected to be normalized.
func Subset(required, have []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
