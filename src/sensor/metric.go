package sensor

// Metric identifies one of the five readings. The order is the wire, log and chart order.
type Metric int

const (
	SoilHumidity Metric = iota
	TempLM35
	DistanceCm
	TempDHT22
	HumidityDHT22
)

// Metrics lists every metric in field order.
var Metrics = []Metric{SoilHumidity, TempLM35, DistanceCm, TempDHT22, HumidityDHT22}

type metricInfo struct {
	key, header, label, title string
}

var metricInfos = map[Metric]metricInfo{
	SoilHumidity:  {"soil_humidity", "Humedad Suelo", "Humedad del suelo", "Humedad del Suelo"},
	TempLM35:      {"temp_lm35", "Temp LM35 (°C)", "Temp LM35 (°C)", "Temp LM35 (°C)"},
	DistanceCm:    {"distance_cm", "Distancia (cm)", "Distancia (cm)", "Distancia (cm)"},
	TempDHT22:     {"temp_dht22", "Temp DHT22 (°C)", "Temp Aire DHT22 (°C)", "Temp DHT22 (°C)"},
	HumidityDHT22: {"humidity_dht22", "Humedad DHT22 (%)", "Humedad Aire DHT22 (%)", "Humedad DHT22 (%)"},
}

// Key is a stable ASCII identifier (metric labels, JSON).
func (m Metric) Key() string { return metricInfos[m].key }

// Header is the log column header.
func (m Metric) Header() string { return metricInfos[m].header }

// Label is the caption shown next to the live value.
func (m Metric) Label() string { return metricInfos[m].label }

// Title is the chart panel title.
func (m Metric) Title() string { return metricInfos[m].title }

func (m Metric) String() string { return m.Key() }
