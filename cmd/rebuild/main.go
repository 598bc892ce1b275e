// rebuild verifica y repara la proyección de balances a partir del log de eventos.
//
// Uso: go run ./cmd/rebuild [--apply]
// Sin flags hace un replay del log y lo compara contra la tabla balances,
// reportando discrepancias (exit code 1 si las hay). Con --apply reescribe
// la tabla balances con el estado derivado del log.
//
// La conexión se toma de las mismas variables de entorno que cmd/api
// (DATABASE_URL o DB_HOST/DB_PORT/...).
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/pkg/config"
)

func main() {
	apply := len(os.Args) > 1 && os.Args[1] == "--apply"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	events := postgres.NewEventLogRepository(pool)
	balances := postgres.NewBalanceRepository(pool)
	replayer := appledger.NewReplayer(events)

	if apply {
		if err := replayer.RebuildInto(ctx, balances); err != nil {
			fmt.Fprintf(os.Stderr, "reconstruir balances: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("balances reconstruidos desde el log de eventos")
		return
	}

	derived, err := replayer.Rebuild(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay del log: %v\n", err)
		os.Exit(1)
	}

	materialized, err := balances.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leer balances materializados: %v\n", err)
		os.Exit(1)
	}
	current := make(map[string]int64, len(materialized))
	for _, b := range materialized {
		current[b.ProductID] = b.CurrentStock
	}

	// Unión de productos de ambos lados, ordenada para salida estable
	seen := make(map[string]bool, len(derived)+len(current))
	var ids []string
	for id := range derived {
		seen[id] = true
		ids = append(ids, id)
	}
	for id := range current {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	discrepancies := 0
	for _, id := range ids {
		want := derived[id] // cero si el log no conoce el producto
		got := current[id]  // cero si la tabla no tiene fila
		if want != got {
			discrepancies++
			fmt.Printf("DESVIACIÓN  %s  log=%d  balances=%d\n", id, want, got)
		}
	}

	if discrepancies > 0 {
		fmt.Fprintf(os.Stderr, "%d producto(s) con desviación; ejecute con --apply para reparar\n", discrepancies)
		os.Exit(1)
	}
	fmt.Printf("balances consistentes con el log (%d producto(s) verificados)\n", len(ids))
}
