package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/numat/omega-tx/omega"
	"github.com/numat/omega-tx/omega/iserver"
)

// CLI args
var (
	listenAddr   = flag.String("listen-address", ":8080", "The address to listen on for HTTP requests.")
	readInterval = flag.Duration("read-int", 30*time.Second, "time interval between sensor reads")
	txType       = flag.String("type", "ibthx", "transmitter type: ithx or ibthx")
	txAddr       = flag.String("addr", "", "host:port of the transmitter")
	timeout      = flag.Duration("timeout", iserver.DefaultTimeout, "per-operation network timeout")
	retries      = flag.Int("retries", 5, "max number of tries in case of network errors")
)

// metrics to expose to Prometheus
var (
	gaugeTemperature = newGauge("omega_temperature", "Ambient Temperature (units: degrees Celsius)")
	gaugeHumidity    = newGauge("omega_humidity", "Relative Humidity (units: %)")
	gaugeDewpoint    = newGauge("omega_dewpoint", "Dewpoint (units: degrees Celsius)")
	gaugeAtmPressure = newGauge("omega_atm_pressure", "Barometric Pressure (units: mbar/hPa)")
)

var promFields = []struct {
	field omega.Field
	gauge *prometheus.GaugeVec
}{
	{omega.FieldTemperatureC, gaugeTemperature},
	{omega.FieldHumidity, gaugeHumidity},
	{omega.FieldDewpointC, gaugeDewpoint},
	{omega.FieldPressureMbar, gaugeAtmPressure},
}

func newGauge(name string, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		[]string{"address"},
	)
}

func init() {
	prometheus.MustRegister(gaugeTemperature)
	prometheus.MustRegister(gaugeHumidity)
	prometheus.MustRegister(gaugeDewpoint)
	prometheus.MustRegister(gaugeAtmPressure)

	// Add Go module build info.
	prometheus.MustRegister(prometheus.NewBuildInfoCollector())

	//logging
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func main() {
	flag.Parse()
	if *txAddr == "" {
		log.Fatal("-addr is required")
	}
	profile, ok := iserver.ProfileFor(*txType)
	if !ok {
		log.Fatalf("unknown transmitter type %q", *txType)
	}

	go func() {
		// Expose the registered metrics via HTTP.
		http.Handle("/metrics", promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{
				// Opt into OpenMetrics to support exemplars.
				EnableOpenMetrics: true,
			},
		))
		log.Panic(http.ListenAndServe(*listenAddr, nil))
	}()

	for {
		pollOnce(profile)
		time.Sleep(*readInterval)
	}
}

func pollOnce(profile iserver.Profile) {
	client := &iserver.Client{
		Addr:    *txAddr,
		Profile: profile,
		Timeout: *timeout,
	}
	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Errorf("failed to connect to %s: %s", *txAddr, err)
		return
	}
	defer func() { _ = client.Close() }()

	reading, err := getWithRetries(ctx, client, *retries)
	if err != nil {
		log.Errorf("failed to read from %s: %s", *txAddr, err)
		return
	}

	readingAsJson, err := json.Marshal(reading)
	if err == nil {
		log.Printf("Received: %s", readingAsJson)
	} else {
		log.Printf("Received: <marshall error: %s>", err)
	}

	for _, pf := range promFields {
		if v, ok := reading.Value(pf.field); ok {
			pf.gauge.WithLabelValues(*txAddr).Set(v)
		}
	}
}

func getWithRetries(ctx context.Context, sensor omega.Sensor, retries int) (omega.Reading, error) {
	var lastErr error
	for i := 0; i < retries; i++ {
		reading, err := sensor.Get(ctx)
		if err == nil {
			return reading, nil
		}
		lastErr = err
		if i+1 < retries {
			log.Errorf("retrying error in get: %s", err)
		}
	}
	return omega.Reading{}, lastErr
}
