package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadfilter/admin"
	"leadfilter/config"
	modelt "leadfilter/model/testing"
	apsql "leadfilter/sql"

	"github.com/gorilla/mux"
	gc "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { gc.TestingT(t) }

type AdminSuite struct {
	db     *apsql.DB
	router *mux.Router
}

var _ = gc.Suite(&AdminSuite{})

func (s *AdminSuite) SetUpTest(c *gc.C) {
	s.db = modelt.NewDB(c, config.Database{
		Driver:           "sqlite3",
		ConnectionString: ":memory:",
	})
	s.router = mux.NewRouter()
	admin.Setup(s.router, s.db, config.Configuration{
		Discord: config.Discord{MinROI: 20, DedupeHours: 6},
		Admin: config.Admin{
			PathPrefix: "/admin/",
			DevMode:    true,
		},
	})
}

func (s *AdminSuite) TearDownTest(c *gc.C) {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
}

func (s *AdminSuite) do(c *gc.C, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, "http://example.com"+path, reader)
	c.Assert(err, gc.IsNil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AdminSuite) TestGuildSettingsShowDefaults(c *gc.C) {
	w := s.do(c, "GET", "/admin/guilds/100/settings", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)

	var wrapped struct {
		GuildSettings struct {
			GuildID     string  `json:"guild_id"`
			MinROI      float64 `json:"min_roi"`
			DMEnabled   bool    `json:"dm_enabled"`
			DedupeHours float64 `json:"dedupe_hours"`
		} `json:"guild_settings"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &wrapped), gc.IsNil)
	c.Check(wrapped.GuildSettings.GuildID, gc.Equals, "100")
	c.Check(wrapped.GuildSettings.MinROI, gc.Equals, 20.0)
	c.Check(wrapped.GuildSettings.DMEnabled, gc.Equals, true)
	c.Check(wrapped.GuildSettings.DedupeHours, gc.Equals, 6.0)
}

func (s *AdminSuite) TestGuildSettingsUpsertAndList(c *gc.C) {
	w := s.do(c, "PUT", "/admin/guilds/100/settings",
		`{"guild_settings":{"min_roi":42,"dm_enabled":false,"dedupe_hours":3}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), `"min_roi": 42`), gc.Equals, true)

	w = s.do(c, "GET", "/admin/guilds", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), `"guild_id": "100"`), gc.Equals, true)
}

func (s *AdminSuite) TestGuildSettingsValidationErrors(c *gc.C) {
	w := s.do(c, "PUT", "/admin/guilds/100/settings",
		`{"guild_settings":{"min_roi":500}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), "must be between 0 and 100"),
		gc.Equals, true)
}

func (s *AdminSuite) TestGuildSettingsDelete(c *gc.C) {
	w := s.do(c, "DELETE", "/admin/guilds/100/settings", "")
	c.Check(w.Code, gc.Equals, http.StatusNotFound)

	s.do(c, "PUT", "/admin/guilds/100/settings", `{"guild_settings":{"min_roi":42}}`)
	w = s.do(c, "DELETE", "/admin/guilds/100/settings", "")
	c.Check(w.Code, gc.Equals, http.StatusOK)
}

func (s *AdminSuite) TestWatchedChannels(c *gc.C) {
	w := s.do(c, "POST", "/admin/guilds/100/watched_channels",
		`{"watched_channel":{"channel_id":"555"}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)

	// Watching the same channel twice is a validation error.
	w = s.do(c, "POST", "/admin/guilds/100/watched_channels",
		`{"watched_channel":{"channel_id":"555"}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), "already watched"), gc.Equals, true)

	w = s.do(c, "GET", "/admin/guilds/100/watched_channels", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), `"channel_id": "555"`),
		gc.Equals, true)

	w = s.do(c, "DELETE", "/admin/guilds/100/watched_channels/555", "")
	c.Check(w.Code, gc.Equals, http.StatusOK)
	w = s.do(c, "DELETE", "/admin/guilds/100/watched_channels/555", "")
	c.Check(w.Code, gc.Equals, http.StatusNotFound)
}

func (s *AdminSuite) TestChannelLinks(c *gc.C) {
	w := s.do(c, "POST", "/admin/guilds/100/links",
		`{"channel_link":{"source_channel_id":"1","destination_channel_id":"2"}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)

	// Posting the same source again replaces the destination.
	w = s.do(c, "POST", "/admin/guilds/100/links",
		`{"channel_link":{"source_channel_id":"1","destination_channel_id":"3"}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), `"destination_channel_id": "3"`),
		gc.Equals, true)

	w = s.do(c, "GET", "/admin/guilds/100/links", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)

	var wrapped struct {
		ChannelLinks []struct {
			DestinationChannelID string `json:"destination_channel_id"`
		} `json:"channel_links"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &wrapped), gc.IsNil)
	c.Assert(wrapped.ChannelLinks, gc.HasLen, 1)
	c.Check(wrapped.ChannelLinks[0].DestinationChannelID, gc.Equals, "3")

	w = s.do(c, "DELETE", "/admin/guilds/100/links/1", "")
	c.Check(w.Code, gc.Equals, http.StatusOK)
}

func (s *AdminSuite) TestFilterScripts(c *gc.C) {
	w := s.do(c, "GET", "/admin/guilds/100/script", "")
	c.Check(w.Code, gc.Equals, http.StatusNotFound)

	w = s.do(c, "PUT", "/admin/guilds/100/script",
		`{"filter_script":{"script":"decision.pass = false;","enabled":true}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)

	w = s.do(c, "GET", "/admin/guilds/100/script", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), "decision.pass"), gc.Equals, true)

	// Enabled scripts must not be blank.
	w = s.do(c, "PUT", "/admin/guilds/100/script",
		`{"filter_script":{"script":"","enabled":true}}`)
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), "must not be blank when enabled"),
		gc.Equals, true)

	w = s.do(c, "DELETE", "/admin/guilds/100/script", "")
	c.Check(w.Code, gc.Equals, http.StatusOK)
}

func (s *AdminSuite) TestLeads(c *gc.C) {
	w := s.do(c, "GET", "/admin/guilds/100/leads", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), `"count": 0`), gc.Equals, true)

	w = s.do(c, "GET", "/admin/guilds/100/leads?limit=bogus", "")
	c.Check(w.Code, gc.Equals, http.StatusBadRequest)
}

func (s *AdminSuite) TestStatus(c *gc.C) {
	s.do(c, "PUT", "/admin/guilds/100/settings", `{"guild_settings":{"min_roi":42}}`)
	s.do(c, "POST", "/admin/guilds/100/watched_channels",
		`{"watched_channel":{"channel_id":"555"}}`)

	w := s.do(c, "GET", "/admin/status", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)

	var wrapped struct {
		Status struct {
			Version         string `json:"version"`
			Guilds          int64  `json:"guilds"`
			WatchedChannels int64  `json:"watched_channels"`
			Leads           int64  `json:"leads"`
			RelayEnabled    bool   `json:"relay_enabled"`
		} `json:"status"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &wrapped), gc.IsNil)
	c.Check(wrapped.Status.Version, gc.Equals, config.SystemVersion)
	c.Check(wrapped.Status.Guilds, gc.Equals, int64(1))
	c.Check(wrapped.Status.WatchedChannels, gc.Equals, int64(1))
	c.Check(wrapped.Status.Leads, gc.Equals, int64(0))
	c.Check(wrapped.Status.RelayEnabled, gc.Equals, false)
}

func (s *AdminSuite) TestStatsSample(c *gc.C) {
	w := s.do(c, "GET", "/admin/stats", "")
	c.Assert(w.Code, gc.Equals, http.StatusOK)
	c.Check(strings.Contains(w.Body.String(), `"stats"`), gc.Equals, true)

	w = s.do(c, "GET", "/admin/stats?from=bogus", "")
	c.Check(w.Code, gc.Equals, http.StatusBadRequest)
}
