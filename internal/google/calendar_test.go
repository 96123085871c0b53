package google

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"scheduler/internal/models"
)

func TestToBusyEntries(t *testing.T) {
	c := &CalendarClient{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		location: time.FixedZone("UTC+1", 60*60),
	}

	entries := c.toBusyEntries([]*calendar.TimePeriod{
		{Start: "2015-03-13T07:00:00Z", End: "2015-03-13T08:30:00Z"},
		{Start: "2015-03-13T10:00:00+02:00", End: "2015-03-13T11:00:00+02:00"},
		{Start: "not a time", End: "2015-03-13T11:00:00Z"},
		{Start: "2015-03-13T11:00:00Z", End: ""},
	}, 8)

	assert.Equal(t, []models.BusyEntry{
		{ID: 8, StartTime: "2015-03-13 08:00", EndTime: "2015-03-13 09:30"},
		{ID: 8, StartTime: "2015-03-13 09:00", EndTime: "2015-03-13 10:00"},
	}, entries)
}

func TestGetOAuthConfig_FromEnvValues(t *testing.T) {
	config, err := GetOAuthConfigForAuthFlow("id", "secret")
	require.NoError(t, err)
	assert.Equal(t, "id", config.ClientID)
	assert.Equal(t, []string{calendar.CalendarReadonlyScope}, config.Scopes)
}

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	path := filepath.Join(dir, TokenFile("work"))
	require.NoError(t, SaveToken(path, token))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0644))

	loaded, err := tokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	accounts, err := GetTokenAccounts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, accounts)
}
