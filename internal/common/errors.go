// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса.
// Эти ошибки позволяют HTTP-обработчикам различать типы проблем
// и возвращать корректные статусы и понятные сообщения.
package common

import "errors"

// Ошибки профилей
var (
	// ErrProfileNotFound — профиль не найден в базе
	ErrProfileNotFound = errors.New("профиль не найден")
	// ErrProfileExists — профиль с таким id уже зарегистрирован
	ErrProfileExists = errors.New("профиль уже существует")
)

// Ошибки вопросов и ответов
var (
	// ErrQuestionNotFound — вопрос не найден
	ErrQuestionNotFound = errors.New("вопрос не найден")
	// ErrAnswerNotFound — ответ не найден
	ErrAnswerNotFound = errors.New("ответ не найден")
	// ErrEmptyTitle — заголовок вопроса пустой
	ErrEmptyTitle = errors.New("заголовок вопроса не может быть пустым")
	// ErrEmptyContent — текст вопроса или ответа пустой
	ErrEmptyContent = errors.New("текст не может быть пустым")
	// ErrNoTags — вопрос публикуется без единого тега
	ErrNoTags = errors.New("укажите хотя бы один тег")
	// ErrNotQuestionAuthor — лучший ответ выбирает не автор вопроса
	ErrNotQuestionAuthor = errors.New("только автор вопроса может выбрать лучший ответ")
	// ErrAnswerNotOnQuestion — ответ принадлежит другому вопросу
	ErrAnswerNotOnQuestion = errors.New("ответ не относится к этому вопросу")
	// ErrBestAnswerTaken — у вопроса уже есть лучший ответ
	ErrBestAnswerTaken = errors.New("у вопроса уже выбран лучший ответ")
	// ErrQuestionClosed — вопрос закрыт и не принимает ответы
	ErrQuestionClosed = errors.New("вопрос закрыт и не принимает ответы")
)

// Ошибки лайков
var (
	// ErrSelfLike — попытка лайкнуть собственный вопрос
	ErrSelfLike = errors.New("нельзя лайкать собственный вопрос")
)

// Ошибки системы баллов
var (
	// ErrUnknownAction — действие отсутствует в таблице начислений.
	// Это ошибка программиста, а не пользователя: новые действия
	// добавляются в таблицу вместе с кодом.
	ErrUnknownAction = errors.New("неизвестное действие для начисления баллов")
	// ErrBadRankTable — таблица рангов из конфигурации некорректна
	ErrBadRankTable = errors.New("некорректная таблица рангов")
)

// Ошибки админки
var (
	// ErrNotAdmin — неверный админ-токен
	ErrNotAdmin = errors.New("нет прав администратора")
)
