package catalog

import (
	"regexp"
	"strings"
	"time"

	"libris-backend/internal/platform/apierr"
)

const dateLayout = "2006-01-02"

// ISBNは数字とハイフンのみ許可
var isbnPattern = regexp.MustCompile(`^[0-9][0-9-]*$`)

type bookInput struct {
	Title           string
	Author          string
	Genres          []string
	ISBN            string
	PublicationDate string
	ProviderID      int64
}

// validateBookInput checks the shared required-field contract for add/update.
// 書き込み前に弾く。部分的な状態を残さない。
func validateBookInput(in bookInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apierr.ErrInvalid("title is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		return apierr.ErrInvalid("author is required")
	}
	if len(in.Genres) == 0 {
		return apierr.ErrInvalid("at least one genre is required")
	}
	for _, g := range in.Genres {
		if strings.TrimSpace(g) == "" {
			return apierr.ErrInvalid("genre names must not be empty")
		}
	}
	if !isbnPattern.MatchString(in.ISBN) {
		return apierr.ErrInvalid("isbn must contain digits and hyphens only")
	}
	if _, err := time.Parse(dateLayout, in.PublicationDate); err != nil {
		return apierr.ErrInvalid("publication_date must be YYYY-MM-DD")
	}
	if in.ProviderID <= 0 {
		return apierr.ErrInvalid("provider_id is required")
	}
	return nil
}
