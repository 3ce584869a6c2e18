package catalog

// 書籍登録リクエスト
type AddBookRequest struct {
	Title           string   `json:"title" binding:"required"`
	Author          string   `json:"author" binding:"required"`
	Genres          []string `json:"genres" binding:"required"`
	ISBN            string   `json:"isbn" binding:"required"`
	PublicationDate string   `json:"publication_date" binding:"required"`
	ProviderID      int64    `json:"provider_id" binding:"required"`
	PublisherID     *int64   `json:"publisher_id,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Copies          int      `json:"copies"`
}

// 書籍更新リクエスト
type UpdateBookRequest struct {
	BookID          int64    `json:"book_id" binding:"required"`
	Title           string   `json:"title" binding:"required"`
	Author          string   `json:"author" binding:"required"`
	Genres          []string `json:"genres" binding:"required"`
	ISBN            string   `json:"isbn" binding:"required"`
	PublicationDate string   `json:"publication_date" binding:"required"`
	ProviderID      int64    `json:"provider_id" binding:"required"`
	PublisherID     *int64   `json:"publisher_id,omitempty"`
	Description     *string  `json:"description,omitempty"`
	// nil なら冊数は変更しない
	Copies *int `json:"copies,omitempty"`
}

type AddBookResponse struct {
	BookID int64 `json:"book_id"`
}

type UpdateBookResponse struct {
	BookID int64 `json:"book_id"`
	// 縮小時に実際に退役できた冊数（貸出中のコピーは退役対象にならない）
	CopiesRetired int `json:"copies_retired"`
	CopiesAdded   int `json:"copies_added"`
}

type AddGenreRequest struct {
	GenreName string `json:"genre_name" binding:"required"`
}

type AddAuthorRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
}
