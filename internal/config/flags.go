package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags are the command-line options shared by the binaries. They are bound
// to a pflag.FlagSet (usually the persistent flags of the cobra root) with
// [RegisterFlags]. Flags left at their zero default do not override other
// sources.
type Flags struct {
	serverAddress  NetAddress
	requestTimeout time.Duration
	databaseDSN    string

	statePath string
	driver    string
	prefsPath string

	remote         string
	scheme         string
	remoteTimeout  time.Duration
	syncInterval   time.Duration
	syncDeadline   time.Duration
	metricsAddress string

	logLevel string
	logFile  string

	jsonConfigPath string
}

// RegisterFlags defines all configuration flags on fs.
//
// Flags:
//
//	-a/--address        server address in format [host]:[port]
//	--request-timeout   server request timeout (e.g. "30s")
//	-d/--database-dsn   server PostgreSQL DSN
//	--state             client state file (file driver) or database (sqlite driver)
//	--storage           client state backend: file|sqlite
//	--prefs             client preferences file
//	-r/--remote         remote endpoint base URL
//	--scheme            remote record layout: quotes|posts
//	--remote-timeout    per-request timeout of the remote endpoint
//	--interval          sync interval
//	--deadline          sync cycle deadline
//	--metrics-address   address of the client metrics endpoint
//	--log-level         log level
//	--log-file          client log file
//	-c/--config         json file path with configs
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.VarP(&f.serverAddress, "address", "a", "Net address host:port")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVarP(&f.databaseDSN, "database-dsn", "d", "", "Database DSN")

	fs.StringVar(&f.statePath, "state", "", "State file or database path")
	fs.StringVar(&f.driver, "storage", "", "State backend: file or sqlite")
	fs.StringVar(&f.prefsPath, "prefs", "", "Preferences file path")

	fs.StringVarP(&f.remote, "remote", "r", "", "Remote endpoint base URL")
	fs.StringVar(&f.scheme, "scheme", "", "Remote record layout: quotes or posts")
	fs.DurationVar(&f.remoteTimeout, "remote-timeout", 0, "Remote request timeout (e.g., 5s)")
	fs.DurationVar(&f.syncInterval, "interval", 0, "Sync interval (e.g., 30s)")
	fs.DurationVar(&f.syncDeadline, "deadline", 0, "Sync cycle deadline (e.g., 10s)")
	fs.StringVar(&f.metricsAddress, "metrics-address", "", "Metrics endpoint address host:port")

	fs.StringVar(&f.logLevel, "log-level", "", "Log level")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path")

	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")

	return f
}

// config converts the parsed flags into a partial [StructuredConfig].
func (f *Flags) config() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			Driver:    f.driver,
			Path:      f.statePath,
			PrefsPath: f.prefsPath,
			DB:        DB{DSN: f.databaseDSN},
		},
		Server: Server{
			HTTPAddress:    f.serverAddress.String(),
			RequestTimeout: f.requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    f.remote,
			Scheme:         f.scheme,
			RequestTimeout: f.remoteTimeout,
		},
		Workers: Workers{
			SyncInterval:   f.syncInterval,
			SyncDeadline:   f.syncDeadline,
			MetricsAddress: f.metricsAddress,
		},
		Log: Log{
			Level:    f.logLevel,
			FilePath: f.logFile,
		},
		JSONFilePath: f.jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
