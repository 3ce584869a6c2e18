package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris-backend/internal/platform/apierr"
)

func validInput() bookInput {
	return bookInput{
		Title:           "The Go Programming Language",
		Author:          "Alan Donovan",
		Genres:          []string{"Programming"},
		ISBN:            "978-0134190440",
		PublicationDate: "2015-10-26",
		ProviderID:      1,
	}
}

func Test_ValidateBookInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *bookInput)
		wantErr string
	}{
		{
			name:   "valid_input_passes",
			mutate: func(in *bookInput) {},
		},
		{
			name:    "empty_title",
			mutate:  func(in *bookInput) { in.Title = "   " },
			wantErr: "title is required",
		},
		{
			name:    "empty_author",
			mutate:  func(in *bookInput) { in.Author = "" },
			wantErr: "author is required",
		},
		{
			name:    "no_genres",
			mutate:  func(in *bookInput) { in.Genres = nil },
			wantErr: "at least one genre is required",
		},
		{
			name:    "blank_genre_name",
			mutate:  func(in *bookInput) { in.Genres = []string{"SF", " "} },
			wantErr: "genre names must not be empty",
		},
		{
			name:    "isbn_with_letters",
			mutate:  func(in *bookInput) { in.ISBN = "97X-0134190440" },
			wantErr: "isbn must contain digits and hyphens only",
		},
		{
			name:    "isbn_leading_hyphen",
			mutate:  func(in *bookInput) { in.ISBN = "-978" },
			wantErr: "isbn must contain digits and hyphens only",
		},
		{
			name:    "bad_date_format",
			mutate:  func(in *bookInput) { in.PublicationDate = "26/10/2015" },
			wantErr: "publication_date must be YYYY-MM-DD",
		},
		{
			name:    "missing_provider",
			mutate:  func(in *bookInput) { in.ProviderID = 0 },
			wantErr: "provider_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := validateBookInput(in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var api *apierr.APIError
			require.True(t, errors.As(err, &api))
			assert.Equal(t, apierr.CodeInvalidArgument, api.Code)
			assert.Equal(t, tt.wantErr, api.Message)
		})
	}
}
