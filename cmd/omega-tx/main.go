package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/numat/omega-tx/omega"
	"github.com/numat/omega-tx/omega/iserver"
)

// CLI args after the two positionals
var (
	flags   = flag.NewFlagSet("omega-tx", flag.ExitOnError)
	port    = flags.Int("port", iserver.DefaultPort, "TCP port of the transmitter")
	timeout = flags.Duration("timeout", iserver.DefaultTimeout, "per-operation network timeout")
	retries = flags.Int("retries", 1, "number of attempts before giving up")
	debug   = flags.Bool("debug", false, "verbose debug output")
)

func init() {
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: omega-tx <type> <host> [flags]")
	fmt.Fprintln(os.Stderr, "  type is one of: ithx, ibthx")
	flags.PrintDefaults()
	os.Exit(2)
}

func main() {
	if len(os.Args) < 3 {
		usage()
	}
	model, host := os.Args[1], os.Args[2]
	_ = flags.Parse(os.Args[3:])
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	profile, ok := iserver.ProfileFor(model)
	if !ok {
		log.Errorf("unknown transmitter type %q", model)
		usage()
	}

	reading, err := readOnce(profile, host)
	if err != nil {
		log.Fatalf("failed to read from %s: %s", host, err)
	}
	out, err := json.MarshalIndent(reading, "", "    ")
	if err != nil {
		log.Fatalf("failed to render reading: %s", err)
	}
	fmt.Println(string(out))
}

func readOnce(profile iserver.Profile, host string) (omega.Reading, error) {
	client := &iserver.Client{
		Addr:    fmt.Sprintf("%s:%d", host, *port),
		Profile: profile,
		Timeout: *timeout,
	}
	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		return omega.Reading{}, err
	}
	defer func() { _ = client.Close() }()

	var lastErr error
	for i := 0; i < *retries; i++ {
		reading, err := client.Get(ctx)
		if err == nil {
			return reading, nil
		}
		lastErr = err
		if i+1 < *retries {
			log.Errorf("retrying error in get: %s", err)
			time.Sleep(*timeout) // self-pacing, the device dislikes being hammered
		}
	}
	return omega.Reading{}, lastErr
}
