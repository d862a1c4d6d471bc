package util

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultPort is the port used when Opts.Port is left at zero.
const DefaultPort = 25565

type Opts struct {
	// Addr is the host name or IP address of the server to connect to.
	Addr string `yaml:"addr"`
	// Port is the port of the server. It defaults to DefaultPort.
	Port uint16 `yaml:"port"`
	// Transport is the name of the transport used to reach the server: tcp, quic, kcp or spectral.
	Transport string `yaml:"transport"`
	// ProtocolVersion is the protocol version announced in the handshake.
	ProtocolVersion int32 `yaml:"protocol_version"`
	// Compression is the backend used once compression is enabled: zlib or snappy.
	Compression string `yaml:"compression"`
	// MaxPacketSize is the largest length a frame may carry.
	MaxPacketSize int `yaml:"max_packet_size"`
	// ReadTimeout is the time in milliseconds a single read may block. Zero disables the deadline.
	ReadTimeout int64 `yaml:"read_timeout"`
	// WriteTimeout is the time in milliseconds a single write may block. Zero disables the deadline.
	WriteTimeout int64 `yaml:"write_timeout"`
	// IgnoredPackets holds IDs of server packets the client skips without decoding.
	IgnoredPackets []int32 `yaml:"ignored_packets"`
	// Account selects how the client logs in. The connection layer never inspects it.
	Account Account `yaml:"account"`
}

func DefaultOpts() *Opts {
	return &Opts{
		Addr:            "localhost",
		Port:            DefaultPort,
		Transport:       "tcp",
		ProtocolVersion: 760,
		Compression:     "zlib",
		MaxPacketSize:   1<<21 - 1,
		ReadTimeout:     30000,
		WriteTimeout:    10000,
		Account:         Account{Type: AccountOffline},
	}
}

// LoadOpts reads yaml options from path on top of DefaultOpts.
func LoadOpts(path string) (*Opts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts := DefaultOpts()
	if err := yaml.UnmarshalStrict(data, opts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if err := opts.Account.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// ServerAddr returns Addr and Port joined as a dial address.
func (o *Opts) ServerAddr() string {
	port := o.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(o.Addr, strconv.Itoa(int(port)))
}

// ReadTimeoutDuration ...
func (o *Opts) ReadTimeoutDuration() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Millisecond
}

// WriteTimeoutDuration ...
func (o *Opts) WriteTimeoutDuration() time.Duration {
	return time.Duration(o.WriteTimeout) * time.Millisecond
}
