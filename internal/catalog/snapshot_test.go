package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ketanjain7981/shop-savy/pkg/errors"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func testSnapshot() *Snapshot {
	return NewSnapshotFromData(SnapshotData{
		Products: []domain.Product{
			{ID: 1, Title: "Trail Running Shoes", Tags: []string{"outdoor", "running"}},
			{ID: 2, Title: "Espresso Machine", Description: "compact espresso maker"},
			{ID: 3, Title: "Running Socks", Tags: []string{"running"}},
			{ID: 4, Title: "Yoga Mat"},
			{ID: 5, Title: "Road Running Jacket"},
		},
		Categories: []domain.Category{
			{Name: "Footwear", Subcategories: []string{"Running", "Casual"}},
		},
		Brands: []domain.Brand{
			{Name: "Stride", Categories: []string{"Footwear"}},
		},
	})
}

func TestSnapshot_FetchPage(t *testing.T) {
	s := testSnapshot()
	ctx := context.Background()

	first, err := s.FetchPage(ctx, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	assert.Len(t, first.Products, 2)
	assert.Equal(t, int64(1), first.Products[0].ID)
	assert.Equal(t, "2", first.NextToken)
	assert.Empty(t, first.PrevToken)

	second, err := s.FetchPage(ctx, 2, first.NextToken)
	require.NoError(t, err)
	assert.Equal(t, int64(3), second.Products[0].ID)
	assert.Equal(t, "4", second.NextToken)
	assert.Equal(t, "0", second.PrevToken)

	last, err := s.FetchPage(ctx, 2, second.NextToken)
	require.NoError(t, err)
	assert.Len(t, last.Products, 1)
	assert.Empty(t, last.NextToken)
}

func TestSnapshot_FetchPage_OffsetPastEnd(t *testing.T) {
	s := testSnapshot()

	page, err := s.FetchPage(context.Background(), 10, "99")
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Empty(t, page.NextToken)
}

func TestSnapshot_FetchPage_InvalidToken(t *testing.T) {
	s := testSnapshot()

	_, err := s.FetchPage(context.Background(), 10, "not-a-number")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = s.FetchPage(context.Background(), 10, "-3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSnapshot_FetchPage_ClampsLimit(t *testing.T) {
	s := testSnapshot()

	page, err := s.FetchPage(context.Background(), 100000, "")
	require.NoError(t, err)
	assert.Len(t, page.Products, 5)
}

func TestSnapshot_FetchByID(t *testing.T) {
	s := testSnapshot()

	p, err := s.FetchByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Espresso Machine", p.Title)

	_, err = s.FetchByID(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSnapshot_FetchRawTextMatch_CatalogOrderShortCircuit(t *testing.T) {
	s := testSnapshot()

	matches, err := s.FetchRawTextMatch(context.Background(), "running", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Catalog order, not relevance: products 1 and 3 match before 5.
	assert.Equal(t, int64(1), matches[0].ID)
	assert.Equal(t, int64(3), matches[1].ID)
}

func TestSnapshot_FetchRawTextMatch_DescriptionAndTags(t *testing.T) {
	s := testSnapshot()

	byDescription, err := s.FetchRawTextMatch(context.Background(), "espresso maker", 10)
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, int64(2), byDescription[0].ID)

	byTag, err := s.FetchRawTextMatch(context.Background(), "outdoor", 10)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, int64(1), byTag[0].ID)
}

func TestSnapshot_Taxonomy(t *testing.T) {
	s := testSnapshot()
	ctx := context.Background()

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Footwear", cats[0].Name)

	brands, err := s.Brands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Stride", brands[0].Name)
}

func TestNewSnapshot_MissingFileDegradesToEmpty(t *testing.T) {
	s := NewSnapshot(filepath.Join(t.TempDir(), "nope.json"), discardLogger())
	assert.Equal(t, 0, s.Len())

	page, err := s.FetchPage(context.Background(), 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 0, page.Total)
}

func TestNewSnapshot_MalformedFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewSnapshot(path, discardLogger())
	assert.Equal(t, 0, s.Len())
}

func TestNewSnapshot_LoadsValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `{"products":[{"id":7,"title":"Desk Lamp","price":25.5}],"categories":[{"name":"Home"}],"brands":[{"name":"Lumen"}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	s := NewSnapshot(path, discardLogger())
	require.Equal(t, 1, s.Len())

	p, err := s.FetchByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", p.Title)
	assert.Equal(t, 25.5, p.Price)
}
