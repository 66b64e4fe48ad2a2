// Package points — ranks.go содержит чистую логику рангов:
// разбор таблицы рангов из конфигурации и вычисление текущего ранга
// с прогрессом до следующего. Никакого I/O здесь нет.
package points

import (
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/qna-backend/internal/common"
)

// RankTier — один ранг: имя, иконка и минимальный порог баллов.
type RankTier struct {
	Min  int    `json:"min_points"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// RankInfo — результат вычисления ранга для баланса.
type RankInfo struct {
	Current         RankTier  `json:"current"`
	Next            *RankTier `json:"next,omitempty"` // nil на высшем ранге
	ProgressPercent int       `json:"progress_percent"`
}

// ParseTiers разбирает таблицу рангов из строки конфигурации.
// Формат: "мин:название:иконка,мин:название:иконка,...".
//
// Требования к таблице:
//   - минимум один ранг
//   - пороги строго по возрастанию
//   - первый порог равен 0 (любой неотрицательный баланс попадает в ранг)
//
// Пример:
//
//	ParseTiers("0:Новичок:🌱,500:Знаток:💻,1000:Гуру:🧙")
func ParseTiers(raw string) ([]RankTier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: пустая таблица", common.ErrBadRankTable)
	}

	parts := strings.Split(raw, ",")
	tiers := make([]RankTier, 0, len(parts))
	for _, p := range parts {
		fields := strings.SplitN(strings.TrimSpace(p), ":", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: ожидается мин:название:иконка, получено %q", common.ErrBadRankTable, p)
		}
		min, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: некорректный порог %q", common.ErrBadRankTable, fields[0])
		}
		name := strings.TrimSpace(fields[1])
		if name == "" {
			return nil, fmt.Errorf("%w: пустое название ранга", common.ErrBadRankTable)
		}
		tiers = append(tiers, RankTier{
			Min:  min,
			Name: name,
			Icon: strings.TrimSpace(fields[2]),
		})
	}

	// Первый порог обязан быть 0, иначе малые балансы останутся без ранга
	if tiers[0].Min != 0 {
		return nil, fmt.Errorf("%w: первый порог должен быть 0, получен %d", common.ErrBadRankTable, tiers[0].Min)
	}

	// Пороги строго по возрастанию
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Min <= tiers[i-1].Min {
			return nil, fmt.Errorf("%w: пороги должны возрастать (%d после %d)",
				common.ErrBadRankTable, tiers[i].Min, tiers[i-1].Min)
		}
	}

	return tiers, nil
}

// ResolveRank вычисляет ранг для баланса.
//
// Алгоритм: ищем высший ранг, чей порог <= balance (нижняя граница
// включительно: баланс, равный порогу, принадлежит этому рангу).
// Прогресс до следующего ранга:
//
//	floor((balance - текущий.Min) / (следующий.Min - текущий.Min) * 100)
//
// обрезанный до [0, 100]. На высшем ранге прогресс всегда 100.
//
// Вызывающий обязан передавать balance >= 0 — здесь значение не обрезается.
// Детерминированная чистая функция: одинаковый баланс всегда даёт
// одинаковый результат.
func ResolveRank(balance int, tiers []RankTier) RankInfo {
	// Идём с конца таблицы: первый подошедший порог — текущий ранг
	idx := 0
	for i := len(tiers) - 1; i >= 0; i-- {
		if balance >= tiers[i].Min {
			idx = i
			break
		}
	}

	info := RankInfo{Current: tiers[idx]}

	// Высший ранг: следующего нет, прогресс считается максимальным
	if idx == len(tiers)-1 {
		info.ProgressPercent = 100
		return info
	}

	next := tiers[idx+1]
	info.Next = &next

	progress := (balance - tiers[idx].Min) * 100 / (next.Min - tiers[idx].Min)
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	info.ProgressPercent = progress

	return info
}
