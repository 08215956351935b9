// Command sparkify-etl reads the song catalog and listening-session logs
// from the configured input root, reshapes them into the songs, artists,
// users, time and songplays tables, and writes them as partitioned parquet
// datasets under the output root. Each run fully replaces the previous
// output.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/rs/zerolog"

	"sparkify_etl/internal/config"
	"sparkify_etl/internal/etl"
	"sparkify_etl/internal/lake"
	"sparkify_etl/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config failed before the real logger exists; use a bare one.
		bare := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bare.Fatal().Err(err).Msg("configuration error")
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format).
		With().Str("run_id", logging.RunID()).Logger()

	var sess *session.Session
	if lake.IsS3(cfg.Input.Path) || lake.IsS3(cfg.Output.Path) {
		sess, err = lake.NewSession(cfg.AWS.Region, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey)
		if err != nil {
			log.Fatal().Err(err).Msg("aws session error")
		}
	}

	src, err := lake.OpenBucket(cfg.Input.Path, sess)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Input.Path).Msg("input open error")
	}
	dst, err := lake.OpenBucket(cfg.Output.Path, sess)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("output open error")
	}

	log.Info().
		Str("input", cfg.Input.Path).
		Str("output", cfg.Output.Path).
		Float64("join_epsilon", cfg.ETL.JoinEpsilon).
		Msg("starting ETL")

	pipeline := etl.New(src, dst, etl.MatcherFor(cfg.ETL.JoinEpsilon), log)
	if err := pipeline.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}

	log.Info().Msg("all tables written")
}
