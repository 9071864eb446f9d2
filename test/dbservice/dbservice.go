//go:build integration || e2e

// Package dbservice manages the MySQL instance shared by a test binary.
// By default it runs a disposable container; set USE_CONTAINER=false to
// target an already running server described by the usual MYSQL_*
// environment variables.
package dbservice

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/designcomputer/mysql-mcp/internal/config"
	"github.com/designcomputer/mysql-mcp/internal/database"
)

type dbService struct {
	db           *sql.DB
	cfg          *config.DBConfig
	container    testcontainers.Container
	startOnce    sync.Once // Ensures the instance is initialized exactly once
	useContainer bool
}

func NewDBService() *dbService {
	useContainer := config.GetEnvWithDefault("USE_CONTAINER", "true") == "true"
	log.Printf("Testing using container: %t", useContainer)
	return &dbService{useContainer: useContainer}
}

func (dbs *dbService) Start(ctx context.Context) {
	dbs.startOnce.Do(func() {
		dbs.start(ctx)
	})
}

func (dbs *dbService) start(ctx context.Context) {
	if dbs.useContainer {
		ctr, cfg, err := createMySQLContainer(ctx)
		if err != nil {
			log.Fatalf("failed to start shared mysql container: %v", err)
		}
		dbs.container = ctr
		dbs.cfg = cfg
	} else {
		dbs.cfg = &config.DBConfig{
			Host:           config.GetEnvWithDefault("MYSQL_HOST", "127.0.0.1"),
			Port:           config.ParseInt(config.GetEnv("MYSQL_PORT"), config.DefaultMySQLPort),
			User:           config.GetEnvWithDefault("MYSQL_USER", "mcp"),
			Password:       config.GetEnvWithDefault("MYSQL_PASSWORD", "mcp-password"),
			Database:       config.GetEnvWithDefault("MYSQL_DATABASE", "mcp_test"),
			Charset:        config.GetEnvWithDefault("MYSQL_CHARSET", "utf8"),
			ConnectTimeout: 5 * time.Second,
		}
	}

	db, err := sql.Open("mysql", database.FormatDSN(dbs.cfg))
	if err != nil {
		dbs.terminate(ctx)
		log.Fatalf("failed to open database handle: %v", err)
	}
	dbs.db = db

	if err := waitForConnectivity(ctx, dbs.container, db); err != nil {
		_ = db.Close()
		dbs.terminate(ctx)
		log.Fatalf("failed to verify connectivity: %v", err)
	}
}

// Stop cleans up shared resources used by the tests
func (dbs *dbService) Stop(ctx context.Context) {
	if dbs.db != nil {
		if err := dbs.db.Close(); err != nil {
			log.Printf("Warning: failed to close database handle: %v", err)
		}
	}
	dbs.terminate(ctx)
}

func (dbs *dbService) terminate(ctx context.Context) {
	if dbs.container == nil {
		return
	}
	if err := dbs.container.Terminate(ctx); err != nil {
		log.Printf("Warning: failed to terminate container: %v", err)
	}
}

// GetDB returns the shared database handle. Tests use it for seeding and
// verification; the code under test opens its own connections.
func (dbs *dbService) GetDB() *sql.DB {
	if dbs.db == nil {
		log.Fatal("database is not initialized")
	}
	return dbs.db
}

// GetDBConfig returns a copy of the connection configuration for the shared
// instance.
func (dbs *dbService) GetDBConfig() *config.DBConfig {
	if dbs.cfg == nil {
		log.Fatal("database is not initialized")
	}
	cfg := *dbs.cfg
	return &cfg
}

// createMySQLContainer starts a MySQL container for testing
func createMySQLContainer(ctx context.Context) (testcontainers.Container, *config.DBConfig, error) {
	user := config.GetEnvWithDefault("MYSQL_USER", "mcp")
	password := config.GetEnvWithDefault("MYSQL_PASSWORD", "mcp-password")
	dbName := config.GetEnvWithDefault("MYSQL_DATABASE", "mcp_test")

	req := testcontainers.ContainerRequest{
		Image:        config.GetEnvWithDefault("MYSQL_IMAGE", "mysql:8.4"),
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": config.GetEnvWithDefault("MYSQL_ROOT_PASSWORD", "root-password"),
			"MYSQL_DATABASE":      dbName,
			"MYSQL_USER":          user,
			"MYSQL_PASSWORD":      password,
		},
		// The image only starts listening on 3306 once the data directory is
		// initialized, so the listening port doubles as a readiness signal.
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(119 * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, nil, err
	}
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, nil, err
	}

	cfg := &config.DBConfig{
		Host:           host,
		Port:           port.Int(),
		User:           user,
		Password:       password,
		Database:       dbName,
		Charset:        "utf8",
		ConnectTimeout: 5 * time.Second,
	}

	return ctr, cfg, nil
}

// waitForConnectivity waits for MySQL connectivity with exponential backoff.
func waitForConnectivity(ctx context.Context, ctr testcontainers.Container, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	backoff := 100 * time.Millisecond
	maxBackoff := 2 * time.Second

	var lastErr error
	for {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	var logs string
	if ctr != nil {
		rc, err := ctr.Logs(context.Background())
		if err == nil && rc != nil {
			b, rerr := io.ReadAll(rc)
			_ = rc.Close()
			if rerr == nil {
				logs = string(b)
			}
		}
	}

	if logs != "" {
		return fmt.Errorf("mysql connectivity not ready: %v\ncontainer logs:\n%s", lastErr, logs)
	}
	return fmt.Errorf("mysql connectivity not ready: %v", lastErr)
}
