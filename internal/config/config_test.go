package config_test

import (
	"testing"

	"github.com/hobbyloop/skein/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogJSON, convey.ShouldBeFalse)
			convey.So(cfg.CatalogPatterns, convey.ShouldEqual, "data/patterns.json")
			convey.So(cfg.CatalogYarns, convey.ShouldEqual, "data/yarns.json")
			convey.So(cfg.CatalogDatabase, convey.ShouldBeEmpty)
			convey.So(cfg.TopN, convey.ShouldEqual, 3)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 25)
			convey.So(cfg.ScoreWorkers, convey.ShouldEqual, 0)
			convey.So(cfg.BlendFactor, convey.ShouldEqual, 0.7)
			convey.So(cfg.HitWorkers, convey.ShouldEqual, 2)
			convey.So(cfg.HitQueueSize, convey.ShouldEqual, 4096)
		})
	})
}
