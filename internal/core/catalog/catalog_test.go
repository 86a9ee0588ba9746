package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "Approved symbol\nA1BG\n\nTP53\n  BRCA1  \nTP53\nA1BG\nAPOE\n"

	symbols, err := Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"A1BG", "TP53", "BRCA1", "APOE"}, symbols)
}

func TestLoad_TooSmall(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "genes.txt", []byte("A\nB\nB\nC\n"), 0o644))

	_, err := Load(fs, "genes.txt", 5)

	var tooSmall *CatalogTooSmallError
	require.True(t, errors.As(err, &tooSmall))
	assert.Equal(t, 3, tooSmall.Have)
	assert.Equal(t, 5, tooSmall.Want)

	symbols, err := Load(fs, "genes.txt", 3)
	require.NoError(t, err)
	assert.Len(t, symbols, 3)
}

func TestEnsure_UsesCachedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/genes.txt", []byte("A\n"), 0o644))

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	path, err := NewFetcher().Ensure(context.Background(), fs, "data/genes.txt", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "data/genes.txt", path)
	assert.Equal(t, 0, calls)
}

func TestEnsure_DownloadsWhenAbsent(t *testing.T) {
	fs := afero.NewMemMapFs()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Approved symbol\nTP53\nBRCA1\n")
	}))
	defer srv.Close()

	path, err := NewFetcher().Ensure(context.Background(), fs, "data/genes.txt", srv.URL)
	require.NoError(t, err)

	symbols, err := Load(fs, path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"TP53", "BRCA1"}, symbols)
}

func TestEnsure_DownloadFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFetcher().Ensure(context.Background(), fs, "data/genes.txt", srv.URL)
	assert.Error(t, err)

	exists, _ := afero.Exists(fs, "data/genes.txt")
	assert.False(t, exists)
}
