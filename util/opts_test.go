package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeOpts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minepress.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadOpts(t *testing.T) {
	path := writeOpts(t, `
addr: play.example.org
transport: quic
protocol_version: 763
compression: snappy
read_timeout: 1500
ignored_packets: [0x26, 38]
account:
  type: mojang
  email: steve@example.org
  password: hunter2
`)

	opts, err := LoadOpts(path)
	if err != nil {
		t.Fatalf("LoadOpts() error = %v", err)
	}
	if opts.Addr != "play.example.org" || opts.Transport != "quic" || opts.ProtocolVersion != 763 {
		t.Errorf("LoadOpts() = %+v", opts)
	}
	if opts.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", opts.Port, DefaultPort)
	}
	if opts.ReadTimeoutDuration() != time.Millisecond*1500 {
		t.Errorf("ReadTimeoutDuration() = %v, want 1.5s", opts.ReadTimeoutDuration())
	}
	if opts.WriteTimeoutDuration() != time.Second*10 {
		t.Errorf("WriteTimeoutDuration() = %v, want default 10s", opts.WriteTimeoutDuration())
	}
	if len(opts.IgnoredPackets) != 2 || opts.IgnoredPackets[0] != 0x26 {
		t.Errorf("IgnoredPackets = %v", opts.IgnoredPackets)
	}
	if opts.Account.Type != AccountMojang || opts.Account.Email != "steve@example.org" {
		t.Errorf("Account = %+v", opts.Account)
	}
	if opts.ServerAddr() != "play.example.org:25565" {
		t.Errorf("ServerAddr() = %q", opts.ServerAddr())
	}
}

func TestLoadOptsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown_field", "adress: localhost\n"},
		{"mojang_without_password", "account:\n  type: mojang\n  email: a@b.c\n"},
		{"unknown_account", "account:\n  type: guest\n"},
		{"invalid_yaml", "addr: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadOpts(writeOpts(t, tc.content)); err == nil {
				t.Errorf("LoadOpts() succeeded, want error")
			}
		})
	}

	if _, err := LoadOpts(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("LoadOpts() of missing file succeeded")
	}
}

func TestAccountValidate(t *testing.T) {
	valid := []Account{
		{Type: AccountOffline},
		{Type: AccountOffline, Username: "Steve"},
		{Type: AccountMicrosoft},
		{Type: AccountMojang, Email: "steve@example.org", Password: "hunter2"},
	}
	for _, a := range valid {
		if err := a.Validate(); err != nil {
			t.Errorf("Validate(%+v) error = %v", a, err)
		}
	}
	if err := (Account{}).Validate(); err == nil {
		t.Errorf("Validate() of empty account succeeded")
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		addr string
		port uint16
		want string
	}{
		{"localhost", 0, "localhost:25565"},
		{"127.0.0.1", 25566, "127.0.0.1:25566"},
		{"::1", 0, "[::1]:25565"},
		{"2001:db8::10", 19132, "[2001:db8::10]:19132"},
	}
	for _, tc := range tests {
		opts := &Opts{Addr: tc.addr, Port: tc.port}
		if got := opts.ServerAddr(); got != tc.want {
			t.Errorf("ServerAddr() of %q = %q, want %q", tc.addr, got, tc.want)
		}
	}
}
