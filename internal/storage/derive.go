package storage

import (
	"regexp"
	"strings"
)

// Скорость чтения для расчета reading_time
const wordsPerMinute = 250

// Длина автоматически извлекаемого excerpt'а в символах
const excerptLength = 300

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// plainText убирает HTML-разметку и схлопывает пробелы.
func plainText(html string) string {
	text := tagRe.ReplaceAllString(html, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}

// DeriveReadingTime оценивает время чтения в минутах, минимум 1.
func DeriveReadingTime(content string) int {
	text := plainText(content)
	if text == "" {
		return 1
	}
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// DeriveExcerpt берет первые символы текста без разметки.
func DeriveExcerpt(content string) string {
	text := plainText(content)
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "..."
}
