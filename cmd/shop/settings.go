package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Adnanskuyy/ShoppingABTest/catalog"
	"github.com/Adnanskuyy/ShoppingABTest/internal/config"
	"github.com/Adnanskuyy/ShoppingABTest/internal/paths"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
)

// settings is the merged view of flags, shop.toml and defaults.
type settings struct {
	duration             time.Duration
	pauseOnConfirm       bool
	tick                 time.Duration
	notificationDuration time.Duration
	catalogPath          string
	eventsDir            string
	sqlitePath           string
	endpoint             string
	metricsAddr          string
	onEnd                string
	dir                  string
	source               participant.Source
	verbose              bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	dir, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	s := &settings{
		duration:             cfg.Experiment.Duration.Std(),
		pauseOnConfirm:       cfg.Experiment.PauseOnConfirm,
		tick:                 cfg.Experiment.Tick.Std(),
		notificationDuration: cfg.HUD.NotificationDuration.Std(),
		catalogPath:          cfg.Scene.Catalog,
		eventsDir:            cfg.Analytics.EventsDir,
		sqlitePath:           cfg.Analytics.SQLite,
		endpoint:             cfg.Analytics.Endpoint,
		metricsAddr:          cfg.Analytics.MetricsAddr,
		onEnd:                cfg.Experiment.OnEnd,
		dir:                  dir,
		verbose:              sharedFlags.verbose,
	}
	if hasChangedFlags(cmd, "duration") {
		s.duration = sharedFlags.duration
	}
	if hasChangedFlags(cmd, "pause-on-confirm") {
		s.pauseOnConfirm = sharedFlags.pauseOnConfirm
	}
	overrideString(cmd, "catalog", sharedFlags.catalog, &s.catalogPath)
	overrideString(cmd, "events-dir", sharedFlags.eventsDir, &s.eventsDir)
	overrideString(cmd, "sqlite", sharedFlags.sqlite, &s.sqlitePath)
	overrideString(cmd, "endpoint", sharedFlags.endpoint, &s.endpoint)
	overrideString(cmd, "metrics-addr", sharedFlags.metricsAddr, &s.metricsAddr)

	s.source = participant.Chain{
		participant.StaticSource{ParticipantID: sharedFlags.uid, Variant: sharedFlags.variant},
		participant.QuerySource{URL: sharedFlags.url},
		participant.EnvSource{},
		participant.StaticSource{ParticipantID: cfg.Participant.ID, Variant: cfg.Participant.Variant},
		participant.StaticSource{Variant: buildVariant},
	}
	return s, nil
}

func overrideString(cmd *cobra.Command, flag, value string, dest *string) {
	if hasChangedFlags(cmd, flag) {
		*dest = value
	}
}

func (s *settings) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(s.catalogPath)
}
