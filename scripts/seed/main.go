package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitienda/mitienda/internal/app"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          text PRIMARY KEY,
    title       text NOT NULL,
    description text NOT NULL DEFAULT '',
    code        text NOT NULL,
    price       double precision NOT NULL,
    status      boolean NOT NULL DEFAULT true,
    stock       integer NOT NULL DEFAULT 0,
    category    text NOT NULL DEFAULT '',
    thumbnails  jsonb NOT NULL DEFAULT '[]',
    created_at  timestamptz NOT NULL,
    updated_at  timestamptz NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS products_code_key ON products (code);

CREATE TABLE IF NOT EXISTS carts (
    id         text PRIMARY KEY,
    items      jsonb NOT NULL DEFAULT '[]',
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
);
`

type seedProduct struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Status      bool     `json:"status"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

func main() {
	var file string
	flag.StringVar(&file, "file", "", "path to a productos.json seed file (defaults to the built-in set)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var repo catalog.Repository
	switch cfg.StoreDriver {
	case app.StoreDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PGDSN)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		fmt.Println("→ Applying schema...")
		if _, err := pool.Exec(ctx, schema); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
		repo = catalog.NewPGRepository(pool)
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
		repo = catalog.NewFileRepository(cfg.DataDir)
	}

	seeds := defaultProducts()
	if file != "" {
		seeds, err = loadSeedFile(file)
		if err != nil {
			log.Fatalf("load seed file: %v", err)
		}
	}

	fmt.Printf("→ Seeding %d products into %s store...\n", len(seeds), cfg.StoreDriver)
	inserted, skipped := 0, 0
	for _, s := range seeds {
		_, err := repo.Create(ctx, catalog.Product{
			Title:       s.Title,
			Description: s.Description,
			Code:        s.Code,
			Price:       s.Price,
			Status:      s.Status,
			Stock:       s.Stock,
			Category:    s.Category,
			Thumbnails:  s.Thumbnails,
		})
		switch {
		case errors.Is(err, shared.ErrDuplicateCode):
			skipped++
		case err != nil:
			log.Fatalf("insert %q: %v", s.Code, err)
		default:
			inserted++
		}
	}

	fmt.Printf("✓ Seed complete at %s (%d inserted, %d already present)\n",
		time.Now().Format(time.RFC3339), inserted, skipped)
}

func loadSeedFile(path string) ([]seedProduct, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []seedProduct
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return seeds, nil
}

func defaultProducts() []seedProduct {
	return []seedProduct{
		{Title: "Mechanical Keyboard", Description: "Tenkeyless mechanical keyboard with brown switches", Code: "KEY-001", Price: 89.99, Status: true, Stock: 25, Category: "peripherals", Thumbnails: []string{"/static/img/keyboard.jpg"}},
		{Title: "Wireless Mouse", Description: "Ergonomic wireless mouse, 2.4GHz receiver", Code: "MOU-001", Price: 34.50, Status: true, Stock: 40, Category: "peripherals", Thumbnails: []string{"/static/img/mouse.jpg"}},
		{Title: "27in Monitor", Description: "27 inch 1440p IPS monitor, 75Hz", Code: "MON-001", Price: 249.00, Status: true, Stock: 12, Category: "displays", Thumbnails: []string{"/static/img/monitor.jpg"}},
		{Title: "USB-C Hub", Description: "7-in-1 hub with HDMI, card reader and PD passthrough", Code: "HUB-001", Price: 45.90, Status: true, Stock: 60, Category: "accessories", Thumbnails: nil},
		{Title: "Laptop Stand", Description: "Aluminium adjustable laptop stand", Code: "STA-001", Price: 29.99, Status: true, Stock: 33, Category: "accessories", Thumbnails: nil},
		{Title: "Webcam 1080p", Description: "Full HD webcam with built-in microphone", Code: "CAM-001", Price: 59.00, Status: true, Stock: 18, Category: "peripherals", Thumbnails: nil},
		{Title: "Noise-Cancelling Headset", Description: "Over-ear headset with active noise cancelling", Code: "AUD-001", Price: 129.99, Status: true, Stock: 15, Category: "audio", Thumbnails: []string{"/static/img/headset.jpg"}},
		{Title: "Desk Microphone", Description: "Cardioid USB condenser microphone", Code: "AUD-002", Price: 74.90, Status: true, Stock: 9, Category: "audio", Thumbnails: nil},
		{Title: "Portable SSD 1TB", Description: "USB 3.2 portable solid state drive, 1TB", Code: "SSD-001", Price: 99.00, Status: true, Stock: 22, Category: "storage", Thumbnails: nil},
		{Title: "Gaming Chair", Description: "Adjustable gaming chair with lumbar support", Code: "CHA-001", Price: 199.00, Status: false, Stock: 0, Category: "furniture", Thumbnails: nil},
	}
}
