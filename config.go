/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/frameguess/game"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	catalog        string
	database       string
	debounce       time.Duration
	frames         string
	jokerGrant     int
	jokerThreshold int
	jokers         int
	lives          int
	port           int
	prefix         string
	profile        bool
	redisURL       string
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.database != "" && c.redisURL != "" {
		return errors.New("only one of --database and --redis-url may be provided")
	}
	if c.catalog == "" {
		return errors.New("--catalog must not be empty")
	}
	if c.lives < 1 {
		return fmt.Errorf("invalid lives (must be at least 1): %d", c.lives)
	}
	if c.jokers < 0 {
		return fmt.Errorf("invalid jokers (must not be negative): %d", c.jokers)
	}
	if c.jokerThreshold < 1 {
		return fmt.Errorf("invalid joker threshold (must be at least 1): %d", c.jokerThreshold)
	}
	if c.jokerGrant < 1 {
		return fmt.Errorf("invalid joker grant (must be at least 1): %d", c.jokerGrant)
	}
	if c.debounce < 0 {
		return fmt.Errorf("invalid debounce (must not be negative): %s", c.debounce)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) gameOptions() game.Options {
	return game.Options{
		StartingLives:  c.lives,
		StartingJokers: c.jokers,
		JokerThreshold: c.jokerThreshold,
		JokerGrant:     c.jokerGrant,
	}
}

func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FRAMEGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "frameguess",
		Short:         "Guess the episode from a single frame.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: FRAMEGUESS_BIND)")
	fs.StringVarP(&cfg.catalog, "catalog", "c", "data", "directory holding the catalog json files, or a yaml bundle (env: FRAMEGUESS_CATALOG)")
	fs.StringVar(&cfg.database, "database", "", "path to sqlite database for player preferences (env: FRAMEGUESS_DATABASE)")
	fs.DurationVar(&cfg.debounce, "debounce", 200*time.Millisecond, "ignore repeat guesses within this window (env: FRAMEGUESS_DEBOUNCE)")
	fs.StringVarP(&cfg.frames, "frames", "f", "frames", "directory holding the frame images (env: FRAMEGUESS_FRAMES)")
	fs.IntVar(&cfg.jokerGrant, "joker-grant", 3, "jokers granted at each threshold (env: FRAMEGUESS_JOKER_GRANT)")
	fs.IntVar(&cfg.jokerThreshold, "joker-threshold", 30, "score multiple that grants new jokers (env: FRAMEGUESS_JOKER_THRESHOLD)")
	fs.IntVar(&cfg.jokers, "jokers", 5, "jokers at the start of a game (env: FRAMEGUESS_JOKERS)")
	fs.IntVar(&cfg.lives, "lives", 3, "lives at the start of a game (env: FRAMEGUESS_LIVES)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: FRAMEGUESS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: FRAMEGUESS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: FRAMEGUESS_PROFILE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis url for player preferences (env: FRAMEGUESS_REDIS_URL)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended (env: FRAMEGUESS_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: FRAMEGUESS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: FRAMEGUESS_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: FRAMEGUESS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: FRAMEGUESS_VERSION)")

	bindEnv(v, fs)

	cmd.AddCommand(newAssembleCmd(v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("frameguess v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
