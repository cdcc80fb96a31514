package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"lintang/navigatorx/pkg/protocol"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Graph     GraphOptions     `yaml:"graph"`
	Transport TransportOptions `yaml:"transport"`
	Protocol  ProtocolOptions  `yaml:"protocol"`
	HTTP      HTTPOptions      `yaml:"http"`
	Log       LogOptions       `yaml:"log"`
}

type GraphOptions struct {
	// Source road network file, .csv or .osm.pbf
	Source string `yaml:"source"`
	// Format csv | osm, empty picks by file extension.
	Format      string `yaml:"format"`
	SnapshotDir string `yaml:"snapshot-dir"`
	// Snapper linear | rtree
	Snapper        string  `yaml:"snapper"`
	UnitsPerDegree float64 `yaml:"units-per-degree"`
}

type TransportOptions struct {
	// Kind stdio | tcp | serial
	Kind        string        `yaml:"kind"`
	Addr        string        `yaml:"addr"`
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	Encoding    string        `yaml:"encoding"`
	ReadTimeout time.Duration `yaml:"read-timeout"`
}

type ProtocolOptions struct {
	AckPolicy        string `yaml:"ack-policy"`
	OnBadAck         string `yaml:"on-bad-ack"`
	MaxAckAttempts   int    `yaml:"max-ack-attempts"`
	RequireStart     bool   `yaml:"require-start"`
	CoordinateFormat string `yaml:"coordinate-format"`
}

type HTTPOptions struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen-addr"`
}

type LogOptions struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func defaultSerialPort() string {
	if runtime.GOOS == "darwin" {
		return "/dev/tty.usbmodem1411"
	}
	return "/dev/ttyACM0"
}

func Default() Config {
	return Config{
		Graph: GraphOptions{
			Source:         "./data/edmonton-roads.csv",
			SnapshotDir:    "./navigatorx_db",
			Snapper:        "linear",
			UnitsPerDegree: 100000,
		},
		Transport: TransportOptions{
			Kind:        "stdio",
			Addr:        ":6060",
			Port:        defaultSerialPort(),
			Baud:        9600,
			Encoding:    "iso-8859-1",
			ReadTimeout: time.Second,
		},
		Protocol: ProtocolOptions{
			AckPolicy:        "after",
			OnBadAck:         "abort",
			MaxAckAttempts:   3,
			CoordinateFormat: "integer",
		},
		HTTP: HTTPOptions{
			ListenAddr: ":5000",
		},
		Log: LogOptions{
			Level: "info",
		},
	}
}

// ReadConfig overlays the yaml file on Default.
func ReadConfig(file string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(file)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", file, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", file, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Graph.Source == "" {
		errs = append(errs, errors.New("graph.source is required"))
	}
	switch strings.ToLower(c.Graph.Format) {
	case "", "csv", "osm":
	default:
		errs = append(errs, fmt.Errorf("graph.format %q is not csv or osm", c.Graph.Format))
	}
	if strings.HasSuffix(strings.ToLower(c.Graph.Source), ".osm") {
		errs = append(errs, fmt.Errorf("graph.source %q is osm xml, only .osm.pbf is supported", c.Graph.Source))
	}
	switch c.Graph.Snapper {
	case "linear", "rtree":
	default:
		errs = append(errs, fmt.Errorf("graph.snapper %q is not linear or rtree", c.Graph.Snapper))
	}
	if c.Graph.UnitsPerDegree <= 0 {
		errs = append(errs, errors.New("graph.units-per-degree must be positive"))
	}
	switch c.Transport.Kind {
	case "stdio", "tcp", "serial":
	default:
		errs = append(errs, fmt.Errorf("transport.kind %q is not stdio, tcp or serial", c.Transport.Kind))
	}
	if c.Transport.Kind == "serial" && c.Transport.Baud <= 0 {
		errs = append(errs, errors.New("transport.baud must be positive"))
	}
	if c.Transport.ReadTimeout < 0 {
		errs = append(errs, errors.New("transport.read-timeout must not be negative"))
	}
	if _, err := c.SessionOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SessionOptions protocol options for a session.
func (c Config) SessionOptions() (protocol.Options, error) {
	opts := protocol.DefaultOptions()
	var err error
	if opts.AckPolicy, err = protocol.ParseAckPolicy(c.Protocol.AckPolicy); err != nil {
		return opts, err
	}
	if opts.OnBadAck, err = protocol.ParseBadAckPolicy(c.Protocol.OnBadAck); err != nil {
		return opts, err
	}
	if opts.CoordinateFormat, err = protocol.ParseCoordinateFormat(c.Protocol.CoordinateFormat); err != nil {
		return opts, err
	}
	if c.Protocol.MaxAckAttempts < 1 {
		return opts, fmt.Errorf("protocol.max-ack-attempts must be at least 1, got %d", c.Protocol.MaxAckAttempts)
	}
	opts.MaxAckAttempts = c.Protocol.MaxAckAttempts
	opts.RequireStart = c.Protocol.RequireStart
	return opts, nil
}

// GraphFormat resolved input format of Graph.Source.
func (c Config) GraphFormat() string {
	if c.Graph.Format != "" {
		return strings.ToLower(c.Graph.Format)
	}
	if strings.HasSuffix(strings.ToLower(c.Graph.Source), ".pbf") {
		return "osm"
	}
	return "csv"
}
