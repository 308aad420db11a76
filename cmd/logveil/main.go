package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/coffersTech/logveil/internal/logging"
	"github.com/coffersTech/logveil/internal/policy"
	"github.com/coffersTech/logveil/internal/sink"
	"github.com/coffersTech/logveil/internal/source"
	"github.com/coffersTech/logveil/internal/stream"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

func main() {
	table := flag.String("table", "users", "Table to stream")
	columns := flag.String("columns", "name,email,phone,ssn,password,ip,last_login,user_agent", "Comma-separated column order")
	policyPath := flag.String("policy", "", "YAML redaction policy file (default: built-in PII set)")
	loggerName := flag.String("logger", "user_data", "Logger name")
	sinkKind := flag.String("sink", "console", "Output sink: console, file or remote")
	outPath := flag.String("out", "logveil.log", "Output file for the file sink")
	compress := flag.Bool("compress", false, "zstd-compress the file sink")
	remoteURL := flag.String("remote-url", "", "Collector URL for the remote sink")
	remoteKey := flag.String("remote-key", "", "API key for the remote sink")
	audit := flag.Bool("audit", false, "Warn about sensitive-looking columns outside the field set")
	flag.Parse()

	p := policy.Default()
	if *policyPath != "" {
		var err error
		p, err = policy.Load(*policyPath)
		if err != nil {
			log.Fatalf("Invalid policy: %v", err)
		}
	}
	if err := p.Validate(); err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}

	out, err := buildSink(*sinkKind, *outPath, *compress, *remoteURL, *remoteKey)
	if err != nil {
		log.Fatalf("Sink setup failed: %v", err)
	}

	registry, err := logging.NewRegistry(p, logging.WithSink(out))
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer registry.Close()

	cfg, err := source.FromEnv()
	if err != nil {
		log.Fatalf("Database configuration error: %v", err)
	}

	ctx := context.Background()
	db, err := cfg.Open(ctx)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	streamCfg := stream.Config{
		Table:     *table,
		Columns:   splitColumns(*columns),
		Separator: p.Sep(),
	}
	if *audit {
		streamCfg.AuditFields = p.Fields
	}

	n, err := stream.New(db, registry.Logger(*loggerName), streamCfg).Stream(ctx)
	if err != nil {
		log.Printf("Streaming aborted after %d rows: %v", n, err)
		registry.Close()
		db.Close()
		os.Exit(1)
	}
	log.Printf("Streamed %d rows from %s", n, *table)
}

func buildSink(kind, path string, compress bool, url, key string) (sink.Sink, error) {
	switch kind {
	case "console":
		return sink.Console(os.Stdout), nil
	case "file":
		return sink.NewFile(path, compress)
	case "remote":
		if url == "" {
			return nil, errors.New("remote sink requires -remote-url")
		}
		return sink.NewRemote(sink.RemoteConfig{URL: url, APIKey: key}), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", kind)
	}
}

func splitColumns(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
