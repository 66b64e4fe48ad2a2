// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование сумм баллов и дат.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizePoints возвращает правильную форму слова «балл» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "балл" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "балла" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "баллов" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizePoints(1)  → "балл"
//	PluralizePoints(3)  → "балла"
//	PluralizePoints(50) → "баллов"
//	PluralizePoints(21) → "балл"
func PluralizePoints(n int) string {
	// Берём абсолютное значение для отрицательных чисел
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return "балл"
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "балла"
	}

	// Большое множественное: 0, 5-20, 25-30, 100, ...
	return "баллов"
}

// FormatPointsAmount создаёт строку вида "+5 баллов" или "-2 балла".
// Знак «+» добавляется автоматически для неотрицательных сумм.
//
// Примеры:
//
//	FormatPointsAmount(5)  → "+5 баллов"
//	FormatPointsAmount(-2) → "-2 балла"
//	FormatPointsAmount(1)  → "+1 балл"
func FormatPointsAmount(amount int) string {
	if amount >= 0 {
		return fmt.Sprintf("+%d %s", amount, PluralizePoints(amount))
	}
	return fmt.Sprintf("%d %s", amount, PluralizePoints(amount))
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат в истории начислений.
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
