package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// DefaultMQTTTopic is where measurements are published when a broker is configured.
const DefaultMQTTTopic = "sensores/mediciones"

const mqttTimeout = 5 * time.Second

// Publisher forwards each measurement as JSON to an MQTT broker.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// mqttPayload is the wire shape of a published measurement.
type mqttPayload struct {
	Timestamp     string  `json:"timestamp"`
	SoilHumidity  int     `json:"soil_humidity"`
	TempLM35      float64 `json:"temp_lm35"`
	DistanceCm    float64 `json:"distance_cm"`
	TempDHT22     float64 `json:"temp_dht22"`
	HumidityDHT22 float64 `json:"humidity_dht22"`
}

func encodePayload(m sensor.Measurement) ([]byte, error) {
	return json.Marshal(mqttPayload{
		Timestamp:     m.Timestamp.Format(time.RFC3339),
		SoilHumidity:  m.SoilHumidity,
		TempLM35:      m.TempLM35,
		DistanceCm:    m.DistanceCm,
		TempDHT22:     m.TempDHT22,
		HumidityDHT22: m.HumidityDHT22,
	})
}

// NewPublisher connects to broker (e.g. tcp://localhost:1883).
func NewPublisher(broker, topic string) (*Publisher, error) {
	if topic == "" {
		topic = DefaultMQTTTopic
	}
	host, _ := os.Hostname()
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("sensormonitor-%s-%d", host, os.Getpid())).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttTimeout)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	Infof("[mqtt] connected to %s, topic %s", broker, topic)
	return &Publisher{client: client, topic: topic}, nil
}

// Name identifies the MQTT sink in logs.
func (p *Publisher) Name() string { return "mqtt" }

// Record publishes m without waiting for broker acknowledgement.
func (p *Publisher) Record(m sensor.Measurement) error {
	b, err := encodePayload(m)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, false, b)
	if token.Error() != nil {
		return fmt.Errorf("mqtt publish: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
