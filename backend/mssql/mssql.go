// Package mssql implements a backend that attempts a SQL Server login using
// database/sql with the github.com/microsoft/go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/Asylian21/passcrack/backend"
)

func init() {
	backend.Register("mssql", func() backend.Backend { return &Backend{Port: 1433, Timeout: 10 * time.Second} })
}

// Backend attempts a SQL Server login for User against Host:Port,
// reporting completed the first time a candidate authenticates.
type Backend struct {
	Host     string
	Port     int
	User     string
	Database string
	Timeout  time.Duration

	mu        sync.Mutex
	registrar backend.Registrar
	found     bool
}

func (b *Backend) Info() backend.Info {
	return backend.Info{
		Name:    "mssql",
		Author:  "passcrack",
		Version: "1.0",
		Usage: []backend.Option{
			{Flag: 'h', Description: "target host"},
			{Flag: 'p', Description: "target port (default 1433)"},
			{Flag: 'U', Description: "SQL Server login name"},
			{Flag: 'D', Description: "database to connect to (optional)"},
		},
		OptionLetters: "hpUD",
		InfoText:      "attempts a SQL Server login",
	}
}

func (b *Backend) SetOption(flag byte, arg string) error {
	switch flag {
	case 'h':
		b.Host = arg
	case 'p':
		port, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("mssql: invalid -p %q: %w", arg, err)
		}
		b.Port = port
	case 'U':
		b.User = arg
	case 'D':
		b.Database = arg
	}
	return nil
}

func (b *Backend) SetRegistrar(r backend.Registrar) { b.registrar = r }

func (b *Backend) Init(workers int) error {
	if b.Host == "" {
		return errors.New("mssql: -h host is required")
	}
	if b.User == "" {
		return errors.New("mssql: -U login name is required")
	}
	if b.Port == 0 {
		b.Port = 1433
	}
	if b.Timeout == 0 {
		b.Timeout = 10 * time.Second
	}
	return nil
}

func (b *Backend) WorkerInit(id int) error { return nil }

func (b *Backend) dsn(password string) string {
	q := url.Values{}
	q.Set("connection timeout", fmt.Sprintf("%d", int(b.Timeout.Seconds())))
	if b.Database != "" {
		q.Set("database", b.Database)
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(b.User, password),
		Host:     fmt.Sprintf("%s:%d", b.Host, b.Port),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// TryPhrase opens a fresh connection for candidate and pings it; go-mssqldb
// performs the login handshake lazily on the first use of the connection,
// so Ping is sufficient to validate the credential without issuing a query.
func (b *Backend) TryPhrase(id int, candidate []byte) (backend.Status, error) {
	db, err := sql.Open("sqlserver", b.dsn(string(candidate)))
	if err != nil {
		return backend.StatusFail, fmt.Errorf("mssql: opening connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return backend.StatusContinue, nil
	}

	b.mu.Lock()
	already := b.found
	b.found = true
	b.mu.Unlock()
	if !already && b.registrar != nil {
		b.registrar.RegisterPassword(b.User, string(candidate))
	}
	return backend.StatusCompleted, nil
}

func (b *Backend) WorkerFinish(id int) {}

func (b *Backend) Finish() {}
