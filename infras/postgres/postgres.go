package postgres

//nolint:revive
import (
	"context"
	"cowork/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName  = "postgres"
	pingTimeout = 5 * time.Second
)

// Connection splits traffic between a primary and a read replica.
// Both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}
}

func (c *Connection) Close() error {
	if c.Read != nil && c.Read != c.Write {
		if err := c.Read.Close(); err != nil {
			return err
		}
	}

	if c.Write != nil {
		return c.Write.Close()
	}

	return nil
}

// DatabaseName applies the optional environment prefix, e.g. "staging_" + "cowork".
func DatabaseName(cfg *config.Config, name string) string {
	return cfg.DB.Postgres.Prefix + name
}

// DSN renders a postgres:// URL. Extra query pairs are appended as-is.
func DSN(cfg *config.Config, endpoint config.PostgresEndpoint, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + DatabaseName(cfg, endpoint.Name),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(cfg *config.Config, role string, endpoint config.PostgresEndpoint) *sqlx.DB {
	pg := cfg.DB.Postgres
	dsn := DSN(cfg, endpoint, nil)

	logger := log.With().
		Str("role", role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("database", DatabaseName(cfg, endpoint.Name)).
		Logger()

	for attempt := 1; attempt <= max(pg.MaxRetry, 1); attempt++ {
		db, err := open(dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifeMin) * time.Minute)

			logger.Info().Msg("connected to postgres")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("postgres unreachable, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Msg("giving up on postgres")

	return nil
}

func open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}
