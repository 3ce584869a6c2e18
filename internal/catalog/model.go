package catalog

import (
	"database/sql"
	"time"
)

// Book は books テーブルの1行を表す
type Book struct {
	BookID          int64
	Title           string
	AuthorID        int64
	ISBN            string
	PublicationDate time.Time
	ProviderID      int64
	PublisherID     sql.NullInt64
	Description     sql.NullString
}

// Copy は book_copies テーブルの1行を表す。
// 廃棄は行削除ではなく IsAvailable=0 への退役で表す。
type Copy struct {
	CopyID      int64
	BookID      int64
	CopyNumber  int
	IsAvailable bool
}

type Author struct {
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
}

type Genre struct {
	GenreID   int64  `json:"genre_id"`
	GenreName string `json:"genre_name"`
}

// Status は reservation_status ルックアップテーブルの1行
type Status struct {
	StatusID   int    `json:"status_id"`
	StatusName string `json:"status_name"`
}

// BookSummary は一覧表示用の集計ビュー
type BookSummary struct {
	BookID          int64    `json:"book_id"`
	Title           string   `json:"title"`
	AuthorName      string   `json:"author_name"`
	PublisherName   *string  `json:"publisher_name,omitempty"`
	ISBN            string   `json:"isbn"`
	PublicationDate string   `json:"publication_date"`
	ProviderName    string   `json:"provider_name"`
	Description     *string  `json:"description,omitempty"`
	TotalCopies     int      `json:"total_copies"`
	AvailableCopies int      `json:"available_copies"`
	Genres          []string `json:"genres"`
}
