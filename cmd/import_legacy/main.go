// import_legacy reproduce el data.json de la aplicación de escritorio (metales, historial de
// compras y ventas, gastos) sobre un libro nuevo y lo guarda en el almacén configurado.
//
// Uso: go run ./cmd/import_legacy -file data.json [-tz America/Bogota] [-force]
// Sin -force no sobrescribe un almacén que ya tiene datos.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Metalica-api/internal/infrastructure/legacy"
	"github.com/jhoicas/Metalica-api/internal/infrastructure/storage"
	"github.com/jhoicas/Metalica-api/pkg/config"
	"github.com/jhoicas/Metalica-api/pkg/logger"
)

func main() {
	file := flag.String("file", "data.json", "ruta del data.json a importar")
	tz := flag.String("tz", "Local", "zona horaria de las fechas del archivo")
	force := flag.Bool("force", false, "sobrescribir el almacén aunque ya tenga datos")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Store.Driver == config.StoreMemory {
		fmt.Fprintln(os.Stderr, "STORE_DRIVER=memory no guarda nada; use json o postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zona horaria %q: %v\n", *tz, err)
		os.Exit(1)
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leer %s: %v\n", *file, err)
		os.Exit(1)
	}
	doc, err := legacy.Decode(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo, closeStore, err := storage.Open(ctx, cfg.Store, cfg.DB, log.Zerolog())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeStore()

	existing, err := repo.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leer almacén: %v\n", err)
		os.Exit(1)
	}
	if existing != nil && !*force {
		fmt.Fprintln(os.Stderr, "el almacén ya tiene datos; use -force para reemplazarlos")
		os.Exit(1)
	}

	engine, rep, err := legacy.NewImporter(log.Component("import"), loc).Import(doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := repo.Save(ctx, engine.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "guardar: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("metales: %d  compras: %d  ventas: %d  gastos: %d  lotes de ajuste: %d  metales eliminados: %d\n",
		rep.Metals, rep.Purchases, rep.Sales, rep.Expenses, rep.OpeningLots, rep.DeletedMetals)
	for _, s := range rep.Skipped {
		fmt.Println("omitido:", s)
	}
	for _, s := range rep.StockMismatch {
		fmt.Println("stock distinto:", s)
	}
}
