package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Разложение NFD + удаление комбинирующих знаков снимает диакритику
	deaccent  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)
	dashRe    = regexp.MustCompile(`-{2,}`)
)

// Slugify превращает заголовок в URL-безопасный slug:
// диакритика снимается, все кроме латиницы и цифр заменяется дефисом.
func Slugify(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	out = nonSlugRe.ReplaceAllString(out, "-")
	out = dashRe.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if out == "" {
		out = "item"
	}
	return out
}

// Предел перебора числовых суффиксов при поиске свободного slug'а
const slugProbeLimit = 50

// UniqueSlug подбирает свободный slug: base, base-2, ... base-50;
// если все заняты, добавляет timestamp-суффикс.
func UniqueSlug(ctx context.Context, base string, taken func(ctx context.Context, slug string) (bool, error)) (string, error) {
	base = Slugify(base)
	for i := 1; i <= slugProbeLimit; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()), nil
}
