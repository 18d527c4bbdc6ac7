package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/numat/omega-tx/omega"
	"github.com/numat/omega-tx/omega/iserver"
)

// CLI args
var (
	brokerURL    = flag.String("broker", "tcp://127.0.0.1:1883", "MQTT broker URL")
	topicFlag    = flag.String("topic", "", "topic to publish readings to (default omega/<type>/<host>)")
	clientID     = flag.String("client-id", "omega-tx", "MQTT client id")
	qos          = flag.Int("qos", 1, "MQTT QoS for published readings")
	readInterval = flag.Duration("read-int", 30*time.Second, "time interval between sensor reads")
	txType       = flag.String("type", "ibthx", "transmitter type: ithx or ibthx")
	txAddr       = flag.String("addr", "", "host:port of the transmitter")
	timeout      = flag.Duration("timeout", iserver.DefaultTimeout, "per-operation network timeout")
	retries      = flag.Int("retries", 5, "max number of tries in case of network errors")
	debug        = flag.Bool("debug", false, "verbose debug output")
)

func init() {
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func main() {
	flag.Parse()
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *txAddr == "" {
		log.Fatal("-addr is required")
	}
	profile, ok := iserver.ProfileFor(*txType)
	if !ok {
		log.Fatalf("unknown transmitter type %q", *txType)
	}
	topic := *topicFlag
	if topic == "" {
		host := *txAddr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		topic = fmt.Sprintf("omega/%s/%s", profile.Model, host)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(*brokerURL).
		SetClientID(*clientID).
		SetAutoReconnect(true)
	broker := mqtt.NewClient(opts)
	if token := broker.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("failed to connect to broker %s: %s", *brokerURL, token.Error())
	}
	log.Printf("publishing readings from %s to %s", *txAddr, topic)

	for {
		publishOnce(broker, profile, topic)
		time.Sleep(*readInterval)
	}
}

func publishOnce(broker mqtt.Client, profile iserver.Profile, topic string) {
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

	var reading omega.Reading
	var lastErr error
	for i := 0; i < *retries; i++ {
		reading, lastErr = client.Get(ctx)
		if lastErr == nil {
			break
		}
		if i+1 < *retries {
			log.Errorf("retrying error in get: %s", lastErr)
		}
	}
	if lastErr != nil {
		log.Errorf("failed to read from %s: %s", *txAddr, lastErr)
		return
	}

	payload, err := json.Marshal(reading)
	if err != nil {
		log.Errorf("failed to render reading: %s", err)
		return
	}
	// retained, so late subscribers see the last reading
	token := broker.Publish(topic, byte(*qos), true, payload)
	if !token.WaitTimeout(*timeout) {
		log.Errorf("publish to %s timed out", topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Errorf("failed to publish to %s: %s", topic, err)
		return
	}
	log.Printf("Published: %s", payload)
}
