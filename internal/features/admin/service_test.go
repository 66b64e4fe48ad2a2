package admin

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
)

// encodeArgon2id строит хеш в том же формате, что scripts/generate_hash.go.
func encodeArgon2id(t *testing.T, token string) string {
	t.Helper()
	salt := []byte("0123456789abcdef")
	var (
		memory      uint32 = 65536
		iterations  uint32 = 3
		parallelism uint8  = 2
	)
	hash := argon2.IDKey([]byte(token), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

type fakeReconciler struct {
	reconciled []uuid.UUID
}

func (f *fakeReconciler) Reconcile(_ context.Context, profileID uuid.UUID) (*points.ProfileStats, error) {
	f.reconciled = append(f.reconciled, profileID)
	return &points.ProfileStats{TotalPoints: 17}, nil
}

func (f *fakeReconciler) ReconcileAll(_ context.Context) (int, error) {
	return 3, nil
}

func TestAuthorize(t *testing.T) {
	hash := encodeArgon2id(t, "секретный-токен")
	svc := NewService(&fakeReconciler{}, hash)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "верный токен", token: "секретный-токен"},
		{name: "неверный токен", token: "другой-токен", wantErr: true},
		{name: "пустой токен", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrNotAdmin)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeBrokenHash(t *testing.T) {
	svc := NewService(&fakeReconciler{}, "не-хеш-вовсе")

	// Сломанный хеш в конфиге никого не пускает
	assert.ErrorIs(t, svc.Authorize("любой"), common.ErrNotAdmin)
}

func TestReconcileDelegates(t *testing.T) {
	rec := &fakeReconciler{}
	svc := NewService(rec, encodeArgon2id(t, "t"))
	id := uuid.New()

	stats, err := svc.Reconcile(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, 17, stats.TotalPoints)
	assert.Equal(t, []uuid.UUID{id}, rec.reconciled)

	done, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, done)
}
