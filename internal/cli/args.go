package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// osExit is a variable that can be mocked in tests
var osExit = os.Exit

const helpText = `mysql-mcp - MySQL Model Context Protocol Server

Usage:
  mysql-mcp [OPTIONS]

Options:
  -h, --help                              Show this help message
  -v, --version                           Show version information
  --mysql-host <HOST>                     MySQL server hostname (overrides env var)
  --mysql-port <PORT>                     MySQL server port (overrides env var)
  --mysql-user <USER>                     Database username (overrides env var)
  --mysql-password <PASSWORD>             Database password (overrides env var)
  --mysql-database <DATABASE>             Database name (overrides env var)
  --mysql-read-only <BOOL>                Enable read-only mode (overrides env var)
  --mysql-transport-mode <MODE>           Transport mode: stdio or http (overrides env var)
  --mysql-http-port <PORT>                HTTP server port (overrides env var)
  --mysql-http-host <HOST>                HTTP server bind host (overrides env var)
  --mysql-http-path <PATH>                HTTP endpoint path (overrides env var)
  --mysql-http-allowed-origins <ORIGINS>  Comma-separated CORS origins (overrides env var)
  --mysql-http-tls-enabled <BOOL>         Enable TLS for the HTTP server (overrides env var)
  --mysql-http-tls-cert-file <FILE>       TLS certificate file (overrides env var)
  --mysql-http-tls-key-file <FILE>        TLS private key file (overrides env var)

Environment Variables:
  MYSQL_USER      Database username (required to connect)
  MYSQL_PASSWORD  Database password (required to connect)
  MYSQL_DATABASE  Database name (required to connect)

  The server starts without them, but the connect tool and the table
  resources will fail until they are provided.

Optional Environment Variables:
  MYSQL_HOST                MySQL server hostname (default: localhost)
  MYSQL_PORT                MySQL server port (default: 3306)
  MYSQL_CHARSET             Connection character set (default: utf8)
  MYSQL_CONNECTION_TIMEOUT  Connect timeout in seconds (default: 5)
  MYSQL_READ_ONLY           Enable read-only mode (default: false)
  MYSQL_MCP_TRANSPORT       Transport mode: stdio or http (default: stdio)

Examples:
  # Using environment variables
  MYSQL_USER=app MYSQL_PASSWORD=secret MYSQL_DATABASE=inventory mysql-mcp

  # Using CLI flags (takes precedence over environment variables)
  mysql-mcp --mysql-host db.internal --mysql-user app --mysql-password secret --mysql-database inventory
`

// configFlags are the flags defined with the flag package in main. HandleArgs
// only validates that each carries a value, then leaves them for flag.Parse().
var configFlags = []string{
	"--mysql-host",
	"--mysql-port",
	"--mysql-user",
	"--mysql-password",
	"--mysql-database",
	"--mysql-read-only",
	"--mysql-transport-mode",
	"--mysql-http-port",
	"--mysql-http-host",
	"--mysql-http-path",
	"--mysql-http-allowed-origins",
	"--mysql-http-tls-enabled",
	"--mysql-http-tls-cert-file",
	"--mysql-http-tls-key-file",
}

// HandleArgs processes command-line arguments for version and help flags.
// It exits the program after displaying the requested information.
// If unknown flags are encountered, it prints an error message and exits.
// Known configuration flags are skipped together with their values so that
// flag.Parse() in main can handle them afterwards.
func HandleArgs(version string) {
	if len(os.Args) <= 1 {
		return
	}

	flags := make(map[string]bool)
	var err error
	i := 1 // os.Args[0] is the program name, not a flag

	for i < len(os.Args) {
		arg := os.Args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags["help"] = true
			i++
		case arg == "-v" || arg == "--version":
			flags["version"] = true
			i++
		case slices.Contains(configFlags, arg):
			// Each configuration flag needs a following value
			if i+1 >= len(os.Args) {
				err = fmt.Errorf("%s requires a value", arg)
				break
			}
			nextArg := os.Args[i+1]
			if strings.HasPrefix(nextArg, "--") {
				err = fmt.Errorf("%s requires a value (got flag %s instead)", arg, nextArg)
				break
			}
			// Safe to skip flag and value - let the flag package handle them
			i += 2
		case arg == "--":
			// Stop processing our flags, let the flag package handle the rest
			i = len(os.Args)
		default:
			err = fmt.Errorf("unknown flag or argument: %s", arg)
			i++
		}
		if err != nil {
			break
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}

	if flags["help"] {
		fmt.Print(helpText)
		osExit(0)
	}

	if flags["version"] {
		fmt.Printf("mysql-mcp version: %s\n", version)
		osExit(0)
	}
}
