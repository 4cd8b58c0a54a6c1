package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"cinex/models"
	"cinex/services/catalog"
)

// dumpcatalog prints the persisted catalog collection from a cinex state
// database as indented JSON. Useful for eyeballing what the app actually
// wrote without spinning up the server.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: dumpcatalog <database-file>")
		os.Exit(1)
	}

	db, err := sql.Open("sqlite3", os.Args[1]+"?mode=ro")
	if err != nil {
		panic(err)
	}
	defer db.Close()

	var raw string
	err = db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, catalog.StorageKey).Scan(&raw)
	if err == sql.ErrNoRows {
		fmt.Println("[]")
		return
	}
	if err != nil {
		panic(err)
	}

	var items []models.CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		panic(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		panic(err)
	}
}
