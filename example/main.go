package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	db "github.com/TechXTT/surveydb"
	"github.com/TechXTT/surveydb/internal/logging"
)

func main() {
	godotenv.Load()
	logging.Apply(os.Getenv("SURVEYDB_LOG_LEVEL"), "")
	defer logging.Close()

	// 1) Connect to the database
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 dbname=classification_test user=postgres"
	}
	conn, err := db.NewDB(dsn, db.WithLogger(log.Logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx := context.Background()

	// 2) Statement without rows; committed immediately
	if err := conn.Exec(ctx, "UPDATE segments SET x=1 WHERE seg_id=1"); err != nil {
		panic(fmt.Errorf("update: %w", err))
	}
	fmt.Println("✅ Updated segment 1")

	// 3) Query rows back
	rows, err := conn.Query(ctx, "SELECT distinct(rid) FROM segments ORDER BY rid")
	if err != nil {
		panic(fmt.Errorf("query: %w", err))
	}
	var rids []any
	for _, r := range rows {
		rids = append(rids, r[0])
	}
	fmt.Printf("✅ Region ids: %v\n", rids)
}
