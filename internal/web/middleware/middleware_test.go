package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minesboomer/internal/testutil"
)

func TestRecoveryRendersErrorPage(t *testing.T) {
	logger := testutil.NopLogger()
	handler := Logging(logger)(Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "Something blew up", doc.Find("h1").Text())
	href, ok := doc.Find("a").Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/", href)
}
