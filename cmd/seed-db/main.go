// Command seed-db loads the product catalog into PostgreSQL and optionally
// provisions an admin profile. The catalog file is JSON, gzipped or plain.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jmcadiz/sari-store/internal/domain/auth"
	"github.com/jmcadiz/sari-store/internal/storage/postgres"
)

const seedWorkers = 4

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stocks      int             `json:"stocks"`
}

const upsertProductSQL = `
INSERT INTO products (id, name, description, price, image_url, stocks)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url,
    stocks = EXCLUDED.stocks
`

func main() {
	var (
		databaseURL  string
		productsFile string
		adminID      string
		adminName    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.StringVar(&adminID, "admin-id", "", "user ID to grant the admin role (or SARI_SEED_ADMIN_ID env)")
	flag.StringVar(&adminName, "admin-name", "", "display name for the admin profile")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminID == "" {
		adminID = os.Getenv("SARI_SEED_ADMIN_ID")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminID, adminName); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminID, adminName string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products, err := readProducts(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedWorkers)
	for _, p := range products {
		g.Go(func() error {
			var imageURL *string
			if p.ImageURL != "" {
				imageURL = &p.ImageURL
			}
			if _, err := pool.Exec(gctx, upsertProductSQL,
				p.ID, p.Name, p.Description, p.Price, imageURL, p.Stocks,
			); err != nil {
				return errors.Wrapf(err, "upsert product %q", p.ID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if adminID != "" {
		if err := seedAdmin(ctx, pool, adminID, adminName); err != nil {
			return errors.Wrap(err, "seed admin")
		}
	}

	return nil
}

// readProducts parses the catalog file, transparently decompressing .gz input.
func readProducts(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open products file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}

// seedAdmin grants the admin role to an existing auth user.
func seedAdmin(ctx context.Context, pool *pgxpool.Pool, adminID, adminName string) error {
	slog.Info("granting admin role", slog.String("user_id", adminID))

	profiles := postgres.NewProfileRepository(pool)
	return profiles.Upsert(ctx, &auth.Profile{
		ID:       adminID,
		Role:     auth.RoleAdmin,
		FullName: adminName,
	})
}
