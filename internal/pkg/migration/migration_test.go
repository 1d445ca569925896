package migration

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "postgres://u:p@db:5432/app?sslmode=disable", want: "pgx5://u:p@db:5432/app?sslmode=disable"},
		{in: "postgresql://u:p@db/app", want: "pgx5://u:p@db/app"},
		{in: "pgx5://u:p@db/app", want: "pgx5://u:p@db/app"},
	}

	for _, tt := range tests {
		if got := driverURL(tt.in); got != tt.want {
			t.Fatalf("driverURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpDown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("prescripto"),
		tcpostgres.WithUsername("prescripto"),
		tcpostgres.WithPassword("prescripto"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	if err := Up(dsn); err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if err := Up(dsn); err != nil {
		t.Fatalf("second Up() should be a no-op, got %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Close()

	var roles int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM roles").Scan(&roles); err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if roles != 3 {
		t.Fatalf("roles = %d, want 3", roles)
	}

	if err := Down(dsn); err != nil {
		t.Fatalf("Down() error = %v", err)
	}

	var exists bool
	if err := pool.QueryRow(ctx, "SELECT to_regclass('public.specialties') IS NOT NULL").Scan(&exists); err != nil {
		t.Fatalf("check table: %v", err)
	}
	if exists {
		t.Fatal("specialties should be dropped")
	}
}
