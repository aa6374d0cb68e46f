// Command modelimport bulk-imports velocity model files into a cache
// database for later use with tomo.report -db.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/seismo-data/tomo.report/internal/db"
	"github.com/seismo-data/tomo.report/internal/model"
)

var (
	dbPath = flag.String("db", "models.db", "Path to the cache database")
	list   = flag.Bool("list", false, "List cached models instead of importing")
)

func main() {
	flag.Parse()

	cache, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open cache database: %v", err)
	}
	defer cache.Close()

	if *list {
		models, err := cache.ListModels()
		if err != nil {
			log.Fatalf("failed to list models: %v", err)
		}
		for _, m := range models {
			fmt.Printf("%s  %-20s %8d samples  %s\n",
				m.ModelID, m.Name, m.Samples, m.ImportedAt.Format("2006-01-02 15:04:05"))
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: modelimport [-db path] <model-file>...")
		os.Exit(2)
	}

	for _, path := range flag.Args() {
		table, err := model.LoadTable(path)
		if err != nil {
			log.Fatalf("failed to load %s: %v", path, err)
		}
		id, err := cache.ImportTable(table.Name, path, table)
		if err != nil {
			log.Fatalf("failed to import %s: %v", path, err)
		}
		log.Printf("imported %s: model %s (%s), %d samples", path, table.Name, id, table.Len())
	}
}
