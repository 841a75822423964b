// Package testhelper starts the docker backed stores used by integration
// tests. Tests skip when no docker daemon is reachable.
package testhelper

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/datastore/postgres"
	redisClient "github.com/Limgrow-internship/intern001-dating-app-sub000/internal/datastore/redis"
	"github.com/ory/dockertest"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	PostgresUser     = "dating"
	PostgresPassword = "dating"
	PostgresDB       = "dating_test"

	maxWait = 120 * time.Second
)

type Postgres struct {
	ORM  *gorm.DB
	Host string
	Port string
}

type Redis struct {
	Client *redisClient.RedisClient
	Host   string
	Port   string
}

func pool(t *testing.T) *dockertest.Pool {
	t.Helper()
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		t.Skip("docker tests disabled")
	}

	p, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %s", err)
	}
	p.MaxWait = maxWait
	return p
}

func run(t *testing.T, p *dockertest.Pool, opts *dockertest.RunOptions) *dockertest.Resource {
	t.Helper()
	resource, err := p.RunWithOptions(opts)
	if err != nil {
		t.Skipf("could not start %s: %s", opts.Repository, err)
	}

	t.Cleanup(func() {
		if err := p.Purge(resource); err != nil {
			t.Logf("could not purge %s: %s", opts.Repository, err)
		}
	})
	return resource
}

// StartPostgres runs postgres 14 and applies every migration.
func StartPostgres(t *testing.T) Postgres {
	t.Helper()
	p := pool(t)
	resource := run(t, p, &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", PostgresUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", PostgresPassword),
			fmt.Sprintf("POSTGRES_DB=%s", PostgresDB),
		},
	})

	pg := Postgres{Host: "localhost", Port: resource.GetPort("5432/tcp")}
	dsn := postgres.DSN(PostgresUser, PostgresPassword, PostgresDB, pg.Host, pg.Port)

	if err := p.Retry(func() error {
		db, err := postgres.InitializeDB(dsn, gormLogger.Silent)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		pg.ORM = db
		return nil
	}); err != nil {
		t.Fatalf("could not connect to postgres: %s", err)
	}

	dir, err := postgres.MigrationsDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := postgres.Migrate(pg.ORM, dir); err != nil {
		t.Fatalf("could not migrate: %s", err)
	}
	return pg
}

// StartRedis runs redis 7.
func StartRedis(t *testing.T) Redis {
	t.Helper()
	p := pool(t)
	resource := run(t, p, &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
	})

	r := Redis{Host: "localhost", Port: resource.GetPort("6379/tcp")}
	if err := p.Retry(func() error {
		client, err := redisClient.Connect(r.Host, r.Port)
		if err != nil {
			return err
		}
		r.Client = client
		return nil
	}); err != nil {
		t.Fatalf("could not connect to redis: %s", err)
	}
	t.Cleanup(func() { _ = r.Client.Close() })
	return r
}
