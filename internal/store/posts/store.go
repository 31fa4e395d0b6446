package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linyuezhao/cultural-navigator/backend/internal/analysis/sentiment"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/mood"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/post"
)

var (
	// ErrEmptyContent 表示发布内容为空，校验失败时不产生任何写入。
	ErrEmptyContent = errors.New("post content is required")
	// ErrPostNotFound 表示帖子不存在。
	ErrPostNotFound = errors.New("post not found")
)

// StorageError 包装底层存储的 I/O 失败。不做自动重试，由用户手动重新提交。
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

const schema = `
CREATE TABLE IF NOT EXISTS anonymous_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    category TEXT,
    mood TEXT,
    mood_color TEXT,
    post_date DATE,
    sentiment_score REAL,
    mood_score REAL,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS emotional_states (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_session TEXT,
    emotion TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const dateLayout = "2006-01-02"

// Store 是匿名帖子的追加式存储。帖子只增不改不删。
type Store struct {
	db *sql.DB
}

// Open 打开（必要时创建）SQLite 数据库并建表。
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	return s.db.Close()
}

// Save 校验并持久化一条帖子，返回带生成 id 的完整记录。
// 情感极性一律由服务端根据正文计算；mood 为空时分值取中性默认值，
// 不记录颜色；postDate 为零值时取当天。
func (s *Store) Save(ctx context.Context, content, category, moodLabel string, postDate time.Time) (post.Post, error) {
	if strings.TrimSpace(content) == "" {
		return post.Post{}, ErrEmptyContent
	}

	record := post.Post{
		Content:        content,
		Category:       category,
		MoodScore:      mood.NeutralScore,
		SentimentScore: sentiment.Analyze(content).Polarity,
		PostDate:       postDate,
	}

	if moodLabel != "" {
		entry, err := mood.Resolve(moodLabel)
		if err != nil {
			return post.Post{}, err
		}
		record.Mood = entry.Label
		record.MoodColor = entry.Color
		record.MoodScore = entry.Score
	}

	if record.PostDate.IsZero() {
		record.PostDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	query := `
        INSERT INTO anonymous_posts (content, category, mood, mood_color, post_date, sentiment_score, mood_score)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        RETURNING id, timestamp`

	err := s.db.QueryRowContext(ctx, query,
		record.Content,
		record.Category,
		nullable(record.Mood),
		nullable(record.MoodColor),
		record.PostDate.Format(dateLayout),
		record.SentimentScore,
		record.MoodScore,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return post.Post{}, &StorageError{Op: "insert", Err: err}
	}

	return record, nil
}

// ListAll 返回全部帖子，按创建时间倒序。数据量小，不做分页。
func (s *Store) ListAll(ctx context.Context) ([]post.Post, error) {
	query := `
        SELECT id, content, category, mood, mood_color, post_date, sentiment_score, mood_score, timestamp
        FROM anonymous_posts
        ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()

	records := make([]post.Post, 0)
	for rows.Next() {
		var (
			record    post.Post
			moodLabel sql.NullString
			moodColor sql.NullString
		)
		err := rows.Scan(
			&record.ID,
			&record.Content,
			&record.Category,
			&moodLabel,
			&moodColor,
			&record.PostDate,
			&record.SentimentScore,
			&record.MoodScore,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, &StorageError{Op: "scan", Err: err}
		}

		record.Mood = moodLabel.String
		record.MoodColor = moodColor.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate", Err: err}
	}

	return records, nil
}

// Get 按 id 读取一条帖子，供匿名分享的 AI 支持回复使用。
func (s *Store) Get(ctx context.Context, id int64) (post.Post, error) {
	query := `
        SELECT id, content, category, mood, mood_color, post_date, sentiment_score, mood_score, timestamp
        FROM anonymous_posts
        WHERE id = ?`

	var (
		record    post.Post
		moodLabel sql.NullString
		moodColor sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.Content,
		&record.Category,
		&moodLabel,
		&moodColor,
		&record.PostDate,
		&record.SentimentScore,
		&record.MoodScore,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return post.Post{}, ErrPostNotFound
	}
	if err != nil {
		return post.Post{}, &StorageError{Op: "get", Err: err}
	}

	record.Mood = moodLabel.String
	record.MoodColor = moodColor.String
	return record, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
