// Package admin — service.go содержит проверку админ-токена (Argon2id)
// и делегирование сервисных операций сверки баллов.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
)

// Reconciler пересчитывает и перезаписывает балансы баллов.
type Reconciler interface {
	Reconcile(ctx context.Context, profileID uuid.UUID) (*points.ProfileStats, error)
	ReconcileAll(ctx context.Context) (int, error)
}

// Service выполняет админ-операции.
type Service struct {
	reconciler Reconciler
	tokenHash  string // Argon2id-хеш админ-токена из конфига
}

// NewService создаёт админ-сервис.
func NewService(reconciler Reconciler, tokenHash string) *Service {
	return &Service{
		reconciler: reconciler,
		tokenHash:  tokenHash,
	}
}

// Authorize проверяет предъявленный токен против сохранённого хеша.
func (s *Service) Authorize(token string) error {
	if token == "" || !verifyArgon2id(token, s.tokenHash) {
		return common.ErrNotAdmin
	}
	return nil
}

// Reconcile сверяет баллы одного профиля.
func (s *Service) Reconcile(ctx context.Context, profileID uuid.UUID) (*points.ProfileStats, error) {
	return s.reconciler.Reconcile(ctx, profileID)
}

// ReconcileAll сверяет баллы всех профилей, возвращает число обработанных.
func (s *Service) ReconcileAll(ctx context.Context) (int, error) {
	return s.reconciler.ReconcileAll(ctx)
}

// verifyArgon2id проверяет токен против хеша в формате
// $argon2id$v=19$m=...,t=...,p=...$salt$hash.
func verifyArgon2id(token, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(token), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
