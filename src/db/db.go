package db

import (
	"context"
	"fmt"
	"os"

	"github.com/kartik220803/image-analyzer/src/analyses"
	"github.com/kartik220803/image-analyzer/src/config"
	"github.com/kartik220803/image-analyzer/src/users"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

// Init intializes and returns a postgres database connection object.
func Init(cfg *config.Config) (*pg.DB, error) {
	dbAddr := fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort)

	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("missing postgres password. Export \"ANALYZER_DB_PASS=<your_password>\"")
	}

	conn := pg.Connect(&pg.Options{
		Addr:     dbAddr,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
	})

	// Print SQL queries to logger if loglevel is set to debug.
	conn.AddQueryHook(loggerHook{})

	err := conn.Ping(context.Background())
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// CreateSchema creates the users and analyses tables if they are missing.
func CreateSchema(conn *pg.DB) error {
	models := []interface{}{
		(*users.User)(nil),
		(*analyses.Analysis)(nil),
	}

	for _, model := range models {
		err := conn.Model(model).CreateTable(&orm.CreateTableOptions{
			IfNotExists: true,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

type loggerHook struct{}

func (h loggerHook) BeforeQuery(ctx context.Context, evt *pg.QueryEvent) (context.Context, error) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Caller().Logger()

	q, err := evt.FormattedQuery()
	if err != nil {
		return nil, err
	}

	if evt.Err != nil {
		log.Debug().Msgf("%s executing a query:\n%s\n", evt.Err, q)
	} else {
		log.Debug().Msg(string(q))
	}

	return ctx, nil
}

func (loggerHook) AfterQuery(context.Context, *pg.QueryEvent) error {
	return nil
}
