package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/matching"
	"github.com/MrJamesThe3rd/invoicer/internal/matching/store"
)

func TestService_Import_AppliesMappings(t *testing.T) {
	ctx := context.Background()
	mappings := matching.NewService(store.NewMemory())

	_, err := mappings.Learn(ctx, matching.LearnParams{RawPattern: "SHELL", Description: "Fuel", Category: expense.CategoryTravel})
	require.NoError(t, err)

	statement := `Date,Description,Amount
03/01/2024,SHELL M6 SOUTHBOUND,-65.13
04/01/2024,UNKNOWN SHOP,-9.99
05/01/2024,CLIENT PAYMENT,250.00
`

	drafts, err := importer.NewService(mappings).Import(ctx, strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.True(t, drafts[0].Matched)
	assert.Equal(t, expense.CategoryTravel, drafts[0].Category)
	assert.Equal(t, "Fuel", drafts[0].Description)
	assert.Equal(t, "SHELL M6 SOUTHBOUND", drafts[0].RawDescription)

	assert.False(t, drafts[1].Matched)
	assert.Empty(t, drafts[1].Category)
	assert.Equal(t, "UNKNOWN SHOP", drafts[1].Description)
}

func TestService_Import_Errors(t *testing.T) {
	failure := errors.New("boom")
	line := expense.CreateParams{Date: time.Now(), Description: "X", RawDescription: "X", Amount: 100}

	type testCase struct {
		name      string
		setupMock func(p *importer.MockParser)
		suggester importer.Suggester
		wantErr   error
	}

	tests := []testCase{
		{
			name: "ParseError",
			setupMock: func(p *importer.MockParser) {
				p.EXPECT().Parse(gomock.Any()).Return(nil, failure)
			},
			suggester: matching.NewService(store.NewMemory()),
			wantErr:   failure,
		},
		{
			name: "SuggestError",
			setupMock: func(p *importer.MockParser) {
				p.EXPECT().Parse(gomock.Any()).Return([]expense.CreateParams{line}, nil)
			},
			suggester: failingSuggester{err: failure},
			wantErr:   failure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			parser := importer.NewMockParser(ctrl)
			tt.setupMock(parser)

			_, err := importer.NewService(tt.suggester).WithParser(parser).Import(context.Background(), strings.NewReader(""))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type failingSuggester struct {
	err error
}

func (f failingSuggester) Suggest(context.Context, string) (*matching.Mapping, error) {
	return nil, f.err
}
