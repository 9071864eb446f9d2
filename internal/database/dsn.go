package database

import (
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/designcomputer/mysql-mcp/internal/config"
)

// FormatDSN renders the per-call connection configuration as a driver DSN.
// The driver config handles escaping of special characters in credentials.
// Datetime columns stay in the server's own textual form (no parseTime), so
// query results read exactly as the MySQL client would print them.
func FormatDSN(cfg *config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.Timeout = cfg.ConnectTimeout
	if cfg.Charset != "" {
		mc.Params = map[string]string{"charset": cfg.Charset}
	}
	return mc.FormatDSN()
}
