package storage

import (
	"fmt"
	"strings"
)

func ptr[T any](v T) *T {
	return &v
}

// setBuilder накапливает пары колонка/значение для UPDATE-запроса.
type setBuilder struct {
	cols []string
	args []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

// setCol добавляет колонку, если значение в патче задано.
// Повторное добавление той же колонки перезаписывает значение.
func setCol[T any](b *setBuilder, column string, v *T) {
	if v == nil {
		return
	}
	for i, c := range b.cols {
		if c == column {
			b.args[i] = *v
			return
		}
	}
	b.cols = append(b.cols, column)
	b.args = append(b.args, *v)
}

func (b *setBuilder) empty() bool {
	return len(b.cols) == 0
}

// updateQuery собирает UPDATE ... SET ... WHERE id = $n RETURNING ...
func (b *setBuilder) updateQuery(table, returning, id string) (string, []any) {
	parts := make([]string, len(b.cols))
	for i, c := range b.cols {
		parts[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(parts, ", "), len(b.cols)+1, returning)
	return query, append(append([]any{}, b.args...), id)
}
