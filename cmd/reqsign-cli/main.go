// Command reqsign-cli signs a described HTTP request against any of the
// six cloud signing schemes the reqsign module implements, either as a
// one-shot "sign" invocation or through a loopback "serve" endpoint.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/prn-tf/reqsign-go/internal/obs"
	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/audit"
	"github.com/prn-tf/reqsign-go/reqsign/obsmetrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: reqsign-cli <sign|serve> [flags]")
		os.Exit(2)
	}

	sub := os.Args[1]
	fs := flag.NewFlagSet(sub, flag.ExitOnError)
	configPath := fs.String("config", "", "path to a reqsign.yaml config file")
	requestPath := fs.String("request", "", "path to a JSON request description (sign only; defaults to stdin)")
	fs.Parse(os.Args[2:])

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	obs.Init(cfg.Logging.Level)
	logger := obs.Component("reqsign-cli")

	reg := prometheus.NewRegistry()
	metrics := obsmetrics.New(reg)

	rec, err := buildAuditRecorder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize audit recorder")
	}
	defer rec.Close()

	rc := reqsign.NewOSContext()
	signer, err := buildSigner(cfg, rc, logger, metrics, rec)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build signer")
	}

	switch sub {
	case "sign":
		runSign(signer, *requestPath)
	case "serve":
		runServe(cfg, signer, reg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", sub)
		os.Exit(2)
	}
}

func buildAuditRecorder(cfg *Config) (audit.Recorder, error) {
	switch cfg.Audit.Driver {
	case "", "none":
		return audit.NopRecorder{}, nil
	case "sqlite":
		return audit.OpenSQLiteRecorder(cfg.Audit.DSN)
	default:
		return nil, fmt.Errorf("unsupported audit driver %q (use \"none\" or \"sqlite\"; postgres requires wiring a *pgxpool.Pool via audit.NewPostgresRecorder directly)", cfg.Audit.Driver)
	}
}

func runSign(signer unifiedSigner, requestPath string) {
	var in *os.File
	if requestPath == "" || requestPath == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(requestPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", requestPath).Msg("failed to open request description")
		}
		defer f.Close()
		in = f
	}

	var desc requestDescription
	if err := json.NewDecoder(in).Decode(&desc); err != nil {
		log.Fatal().Err(err).Msg("failed to parse request description")
	}

	head := desc.toHead()
	if err := signer.Sign(context.Background(), head, desc.expiresIn()); err != nil {
		log.Fatal().Err(err).Msg("signing failed")
	}

	if err := json.NewEncoder(os.Stdout).Encode(toResult(head)); err != nil {
		log.Fatal().Err(err).Msg("failed to encode result")
	}
}
