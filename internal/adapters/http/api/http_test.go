package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
	"github.com/hobbyloop/skein/internal/adapters/http/api"
	"github.com/hobbyloop/skein/internal/climate"
	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/normalize"
	"github.com/hobbyloop/skein/internal/domain/scoring"
	"github.com/hobbyloop/skein/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	matches []api.Match
	err     error

	patterns   []model.Pattern
	pattern    model.Pattern
	patternErr error

	profile    types.ClimateProfile
	profileErr error

	temps     map[string]map[climate.Season]float64
	season    climate.Season
	locations []string

	lastPattern  string
	lastLimit    int
	lastTemp     float64
	blendedCall  bool
	lastFilter   catalog.Filter
	lastName     string
	lastLocation string
	lastSeason   climate.Season
}

func (m *mockDependencies) Recommend(ctx context.Context, pattern string, limit int) ([]api.Match, error) {
	m.lastPattern = pattern
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func (m *mockDependencies) RecommendAt(ctx context.Context, pattern string, tempC float64, limit int) ([]api.Match, error) {
	m.lastPattern = pattern
	m.lastLimit = limit
	m.lastTemp = tempC
	m.blendedCall = true
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func (m *mockDependencies) Patterns(ctx context.Context, f catalog.Filter) ([]model.Pattern, error) {
	m.lastFilter = f
	if m.patternErr != nil {
		return nil, m.patternErr
	}
	return m.patterns, nil
}

func (m *mockDependencies) Pattern(ctx context.Context, name string) (model.Pattern, error) {
	m.lastName = name
	if m.patternErr != nil {
		return model.Pattern{}, m.patternErr
	}
	return m.pattern, nil
}

func (m *mockDependencies) YarnClimate(ctx context.Context, name string) (types.ClimateProfile, error) {
	m.lastName = name
	if m.profileErr != nil {
		return types.ClimateProfile{}, m.profileErr
	}
	return m.profile, nil
}

func (m *mockDependencies) TemperatureFor(location string, season climate.Season) float64 {
	m.lastLocation = location
	m.lastSeason = season
	if t, ok := m.temps[location][season]; ok {
		return t
	}
	return 20
}

func (m *mockDependencies) Locations() []string {
	return m.locations
}

func (m *mockDependencies) SeasonNow() climate.Season {
	return m.season
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		matches: []api.Match{
			{
				Rank:      1,
				Yarn:      model.Yarn{Name: "Merino Soft", Brand: "Drops", Thickness: "Bulky"},
				Breakdown: scoring.Breakdown{Weight: 30, Hook: 20, Base: 80, Total: 80},
			},
			{
				Rank:      2,
				Yarn:      model.Yarn{Name: "Cotton Breeze", Brand: "Gründl", Thickness: "Light (DK)"},
				Breakdown: scoring.Breakdown{Weight: 10, Hook: 10, Base: 45, Total: 45},
			},
		},
		patterns: []model.Pattern{
			{Name: "Cozy Winter Scarf", YarnWeight: "Bulky", Difficulty: "Beginner"},
			{Name: "Amigurumi Octopus", YarnWeight: "Light (DK)", Difficulty: "Intermediate"},
		},
		pattern: model.Pattern{Name: "Cozy Winter Scarf", YarnWeight: "Bulky", Difficulty: "Beginner"},
		profile: types.ClimateProfile{
			Yarn:   "Merino Soft",
			Range:  normalize.ClimateRange{Min: -10, Max: 15, Ideal: 5, Kind: normalize.KindWarm},
			Season: "Winter",
		},
		temps: map[string]map[climate.Season]float64{
			"Stockholm": {climate.Winter: -3, climate.Spring: 5, climate.Summer: 18, climate.Fall: 8},
		},
		season:    climate.Winter,
		locations: []string{"Stockholm", "Berlin", "Custom"},
	}
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true, "patterns": 2}}
	server := api.NewServer(deps, statsProvider, 25)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When registering routes", func() {
			Convey("And health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var stats map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And recommend endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/recommend?pattern=Cozy+Winter+Scarf", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And patterns endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/patterns", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And pattern detail endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/patterns/Cozy%20Winter%20Scarf", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And yarn climate endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/yarns/Merino%20Soft/climate", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And root endpoint should serve the service index", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				body := w.Body.String()
				So(body, ShouldContainSubstring, "skein")
				So(body, ShouldContainSubstring, "/recommend")
				So(body, ShouldContainSubstring, "Stockholm")
			})

			Convey("And root endpoint should catch everything else", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And POST to read-only endpoints should not be found", func() {
				for _, path := range []string{"/recommend", "/patterns", "/stats"} {
					req := httptest.NewRequest("POST", path, nil)
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, req)
					So(w.Code, ShouldEqual, http.StatusNotFound)
				}
			})
		})
	})
}

func TestRecommendEndpoint(t *testing.T) {
	Convey("Given a registered recommend endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		do := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", target, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When requesting without a temperature context", func() {
			w := do("/recommend?pattern=Cozy+Winter+Scarf")

			Convey("Then it should rank against the base score only", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.blendedCall, ShouldBeFalse)
				So(deps.lastPattern, ShouldEqual, "Cozy Winter Scarf")
				So(deps.lastLimit, ShouldEqual, 0)

				var resp struct {
					Pattern     string      `json:"pattern"`
					Temperature *float64    `json:"temperature"`
					Matches     []api.Match `json:"matches"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Pattern, ShouldEqual, "Cozy Winter Scarf")
				So(resp.Temperature, ShouldBeNil)
				So(len(resp.Matches), ShouldEqual, 2)
				So(resp.Matches[0].Rank, ShouldEqual, 1)
				So(resp.Matches[0].Yarn.Name, ShouldEqual, "Merino Soft")
			})
		})

		Convey("When requesting with an explicit temperature", func() {
			w := do("/recommend?pattern=Cozy+Winter+Scarf&temp=-3.5&limit=2")

			Convey("Then it should blend and echo the temperature", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.blendedCall, ShouldBeTrue)
				So(deps.lastTemp, ShouldEqual, -3.5)
				So(deps.lastLimit, ShouldEqual, 2)

				var resp struct {
					Temperature *float64 `json:"temperature"`
					Location    string   `json:"location"`
					Season      string   `json:"season"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Temperature, ShouldNotBeNil)
				So(*resp.Temperature, ShouldEqual, -3.5)
				So(resp.Location, ShouldBeEmpty)
				So(resp.Season, ShouldBeEmpty)
			})
		})

		Convey("When requesting with a location and season", func() {
			w := do("/recommend?pattern=Cozy+Winter+Scarf&location=Stockholm&season=summer")

			Convey("Then it should resolve the climate table temperature", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.blendedCall, ShouldBeTrue)
				So(deps.lastLocation, ShouldEqual, "Stockholm")
				So(deps.lastSeason, ShouldEqual, climate.Summer)
				So(deps.lastTemp, ShouldEqual, 18)

				var resp struct {
					Temperature *float64 `json:"temperature"`
					Location    string   `json:"location"`
					Season      string   `json:"season"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Temperature, ShouldNotBeNil)
				So(*resp.Temperature, ShouldEqual, 18)
				So(resp.Location, ShouldEqual, "Stockholm")
				So(resp.Season, ShouldEqual, "summer")
			})
		})

		Convey("When requesting with a location and no season", func() {
			w := do("/recommend?pattern=Cozy+Winter+Scarf&location=Stockholm")

			Convey("Then it should default to the current season", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSeason, ShouldEqual, climate.Winter)
				So(deps.lastTemp, ShouldEqual, -3)
			})
		})

		Convey("When requesting with an unknown location", func() {
			w := do("/recommend?pattern=Cozy+Winter+Scarf&location=Atlantis")

			Convey("Then it should fall back to the Custom row", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLocation, ShouldEqual, "Atlantis")
				So(deps.lastTemp, ShouldEqual, 20)
			})
		})

		Convey("When the pattern parameter is missing", func() {
			w := do("/recommend")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
				So(w.Body.String(), ShouldContainSubstring, "missing pattern")
			})
		})

		Convey("When the limit is not a positive integer", func() {
			for _, limit := range []string{"abc", "0", "-1", "2.5"} {
				w := do("/recommend?pattern=X&limit=" + limit)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			}
		})

		Convey("When the limit exceeds the configured maximum", func() {
			w := do("/recommend?pattern=X&limit=26")

			Convey("Then it should reject with limit_exceeded", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "limit_exceeded")
			})
		})

		Convey("When temp and location are both present", func() {
			w := do("/recommend?pattern=X&temp=5&location=Stockholm")

			Convey("Then it should reject the combination", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "mutually exclusive")
			})
		})

		Convey("When season is present without location", func() {
			w := do("/recommend?pattern=X&season=winter")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "season requires location")
			})
		})

		Convey("When the season is unknown", func() {
			w := do("/recommend?pattern=X&location=Stockholm&season=monsoon")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			})
		})

		Convey("When the temperature is not a finite number", func() {
			for _, temp := range []string{"cold", "NaN", "Inf", "-Inf"} {
				w := do("/recommend?pattern=X&temp=" + temp)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "finite")
			}
		})

		Convey("When the pattern is not in the catalog", func() {
			deps.err = fmt.Errorf("lookup: %w", catalog.ErrPatternNotFound)
			w := do("/recommend?pattern=Nope")

			Convey("Then it should answer 404 with not_found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "not_found")
			})
		})

		Convey("When the catalog has not been loaded yet", func() {
			deps.err = catalog.ErrNotLoaded
			w := do("/recommend?pattern=X")

			Convey("Then it should answer 503 with catalog_unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, "catalog_unavailable")
			})
		})

		Convey("When the ranker fails for another reason", func() {
			deps.err = fmt.Errorf("boom")
			w := do("/recommend?pattern=X")

			Convey("Then it should answer 500 with internal_error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "internal_error")
			})
		})
	})
}

func TestPatternEndpoints(t *testing.T) {
	Convey("Given registered pattern endpoints", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		do := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", target, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When listing patterns without filters", func() {
			w := do("/patterns")

			Convey("Then it should return the catalog listing", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastFilter, ShouldResemble, catalog.Filter{})

				var patterns []model.Pattern
				So(json.Unmarshal(w.Body.Bytes(), &patterns), ShouldBeNil)
				So(len(patterns), ShouldEqual, 2)
				So(patterns[0].Name, ShouldEqual, "Cozy Winter Scarf")
			})
		})

		Convey("When listing patterns with filters", func() {
			w := do("/patterns?difficulty=Beginner&weight=bulky&q=scarf")

			Convey("Then the filter should pass through verbatim", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastFilter, ShouldResemble, catalog.Filter{
					Difficulty: "Beginner",
					Weight:     "bulky",
					Query:      "scarf",
				})
			})
		})

		Convey("When fetching a pattern detail", func() {
			w := do("/patterns/Cozy%20Winter%20Scarf")

			Convey("Then it should return the pattern", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastName, ShouldEqual, "Cozy Winter Scarf")

				var p model.Pattern
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.YarnWeight, ShouldEqual, "Bulky")
			})
		})

		Convey("When the detail path has no name", func() {
			w := do("/patterns/")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "missing pattern name")
			})
		})

		Convey("When the detail path has extra segments", func() {
			w := do("/patterns/a/b")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the pattern does not exist", func() {
			deps.patternErr = fmt.Errorf("lookup: %w", catalog.ErrPatternNotFound)
			w := do("/patterns/Nope")

			Convey("Then it should answer 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "not_found")
			})
		})
	})
}

func TestYarnClimateEndpoint(t *testing.T) {
	Convey("Given a registered yarn climate endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		do := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", target, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When fetching a yarn's climate profile", func() {
			w := do("/yarns/Merino%20Soft/climate")

			Convey("Then it should return range and season", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastName, ShouldEqual, "Merino Soft")

				var profile types.ClimateProfile
				So(json.Unmarshal(w.Body.Bytes(), &profile), ShouldBeNil)
				So(profile.Yarn, ShouldEqual, "Merino Soft")
				So(profile.Range.Ideal, ShouldEqual, 5)
				So(profile.Season, ShouldEqual, "Winter")
			})
		})

		Convey("When the path is missing the climate suffix", func() {
			w := do("/yarns/Merino%20Soft")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "/yarns/{name}/climate")
			})
		})

		Convey("When the path has extra segments", func() {
			w := do("/yarns/a/b/climate")

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the yarn does not exist", func() {
			deps.profileErr = fmt.Errorf("lookup: %w", catalog.ErrYarnNotFound)
			w := do("/yarns/Nope/climate")

			Convey("Then it should answer 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "not_found")
			})
		})
	})
}
