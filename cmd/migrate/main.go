// Applies the master catalog schema to the database given as the first
// argument.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/openshelf/openshelf/internal/store/postgres"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <connection-string>")
	}
	connStr := os.Args[1]

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping: %v", err)
	}

	fmt.Println("Connected to database")

	if _, err := db.ExecContext(ctx, postgres.MasterSchema); err != nil {
		log.Fatalf("Failed to apply master schema: %v", err)
	}

	fmt.Println("Master catalog schema applied")
}
