// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект App.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/config"
	"serotonyl.ru/qna-backend/internal/db/postgres"
	"serotonyl.ru/qna-backend/internal/features/admin"
	"serotonyl.ru/qna-backend/internal/features/answers"
	"serotonyl.ru/qna-backend/internal/features/likes"
	"serotonyl.ru/qna-backend/internal/features/points"
	"serotonyl.ru/qna-backend/internal/features/profiles"
	"serotonyl.ru/qna-backend/internal/features/questions"
	"serotonyl.ru/qna-backend/internal/jobs"
	"serotonyl.ru/qna-backend/internal/server"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Таблица рангов ===
	tiers, err := points.ParseTiers(cfg.RankTiersRaw)
	if err != nil {
		return nil, fmt.Errorf("ошибка таблицы рангов: %w", err)
	}

	// === 3. Репозитории ===
	pointsRepo := points.NewRepository(pool)
	profileRepo := profiles.NewRepository(pool)
	questionRepo := questions.NewRepository(pool)
	answerRepo := answers.NewRepository(pool)
	likeRepo := likes.NewRepository(pool)

	// === 4. Сервисы ===
	pointsService := points.NewService(pointsRepo, tiers)
	profileService := profiles.NewService(profileRepo, pointsService)
	questionService := questions.NewService(questionRepo, pointsService)
	answerService := answers.NewService(answerRepo, questionRepo, pointsService)
	likeService := likes.NewService(likeRepo, questionRepo, pointsService)
	adminService := admin.NewService(pointsService, cfg.AdminTokenHash)

	// === 5. Обработчики и сервер ===
	handlers := &server.Handlers{
		Profiles:  profiles.NewHandler(profileService),
		Questions: questions.NewHandler(questionService),
		Answers:   answers.NewHandler(answerService),
		Likes:     likes.NewHandler(likeService),
		Points:    points.NewHandler(pointsService),
		Admin:     admin.NewHandler(adminService),
	}
	srv := server.New(cfg, handlers)

	// === 6. Планировщик задач ===
	scheduler := jobs.NewScheduler(pointsService, cfg.ReconcileCronSpec)

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	// Инициализируем систему миграций
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}

	// Выполняем миграции по порядку
	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Profiles},
		{2, migration002Questions},
		{3, migration003Answers},
		{4, migration004Likes},
		{5, migration005PointEvents},
		{6, migration006Badges},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Profiles = `
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    username VARCHAR(255) NOT NULL,
    avatar_url TEXT,
    points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_profiles_points ON profiles(points DESC);
`

var migration002Questions = `
CREATE TABLE IF NOT EXISTS questions (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES profiles(id),
    title VARCHAR(255) NOT NULL,
    content TEXT NOT NULL,
    image_url TEXT,
    status VARCHAR(16) NOT NULL DEFAULT 'open',
    category VARCHAR(64),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_questions_user_id ON questions(user_id);
CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at DESC);

CREATE TABLE IF NOT EXISTS tags (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(64) UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS question_tags (
    question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    tag_id BIGINT NOT NULL REFERENCES tags(id),
    PRIMARY KEY (question_id, tag_id)
);
`

var migration003Answers = `
CREATE TABLE IF NOT EXISTS answers (
    id UUID PRIMARY KEY,
    question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES profiles(id),
    content TEXT NOT NULL,
    is_best_answer BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers(question_id);
CREATE INDEX IF NOT EXISTS idx_answers_user_id ON answers(user_id);

-- Не больше одного лучшего ответа на вопрос, на уровне базы
CREATE UNIQUE INDEX IF NOT EXISTS uniq_best_answer_per_question
    ON answers(question_id) WHERE is_best_answer;
`

var migration004Likes = `
CREATE TABLE IF NOT EXISTS likes (
    id UUID PRIMARY KEY,
    question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES profiles(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (question_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_likes_question_id ON likes(question_id);
`

var migration005PointEvents = `
CREATE TABLE IF NOT EXISTS point_events (
    id BIGSERIAL PRIMARY KEY,
    actor_id UUID REFERENCES profiles(id),
    affected_id UUID NOT NULL REFERENCES profiles(id),
    action VARCHAR(32) NOT NULL,
    delta INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_point_events_affected ON point_events(affected_id, created_at DESC);
`

var migration006Badges = `
CREATE TABLE IF NOT EXISTS badges (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(64) UNIQUE NOT NULL,
    description TEXT,
    icon_url TEXT
);

CREATE TABLE IF NOT EXISTS user_badges (
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    badge_id BIGINT NOT NULL REFERENCES badges(id),
    earned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, badge_id)
);
`
