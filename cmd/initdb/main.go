package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/corporate-inc/contact-api/database"
)

// Database admin tool: creates the contact database, verifies its schema,
// or resets it from scratch.
//
//	initdb -path contact.db            create/migrate
//	initdb -path contact.db -verify    check schema structure
//	initdb -path contact.db -reset     delete and recreate (asks first)
func main() {
	os.Exit(run())
}

func run() int {
	defaultPath := os.Getenv("DB_PATH")
	if defaultPath == "" {
		defaultPath = "contact.db"
	}

	path := flag.String("path", defaultPath, "database file path")
	verify := flag.Bool("verify", false, "verify schema structure instead of migrating")
	reset := flag.Bool("reset", false, "delete the database file and recreate it")
	quiet := flag.Bool("quiet", false, "suppress non-error output")
	yes := flag.Bool("yes", false, "skip the reset confirmation prompt")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		flag.Usage()
		return 2
	}
	if *verify && *reset {
		fmt.Fprintln(os.Stderr, "-verify and -reset are mutually exclusive")
		return 2
	}

	say := func(format string, args ...any) {
		if !*quiet {
			fmt.Printf(format+"\n", args...)
		}
	}

	if *reset {
		if !*yes && !confirmReset(*path) {
			say("Reset cancelled.")
			return 0
		}
		if err := removeDatabase(*path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove database: %v\n", err)
			return 1
		}
		say("Removed %s", *path)
	}

	if *verify {
		return runVerify(*path, say)
	}

	if err := database.InitializeDatabase(*path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		return 1
	}
	defer database.CloseDB()

	say("Database ready: %s", *path)
	return 0
}

// runVerify checks the schema without migrating and reports what is missing
func runVerify(path string, say func(string, ...any)) int {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Database file not found: %s\n", path)
		return 1
	}

	if err := database.OpenDB(path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer database.CloseDB()

	result, err := database.Verify(database.GetDB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		return 1
	}

	if result.OK() {
		say("Schema verification passed: %s", path)
		return 0
	}

	for _, table := range result.MissingTables {
		fmt.Fprintf(os.Stderr, "missing table: %s\n", table)
	}
	for table, columns := range result.MissingColumns {
		fmt.Fprintf(os.Stderr, "table %s missing columns: %s\n", table, strings.Join(columns, ", "))
	}
	for _, view := range result.MissingViews {
		fmt.Fprintf(os.Stderr, "missing view: %s\n", view)
	}
	for _, index := range result.MissingIndexes {
		fmt.Fprintf(os.Stderr, "missing index: %s\n", index)
	}
	return 1
}

// confirmReset asks for explicit confirmation before destroying data
func confirmReset(path string) bool {
	fmt.Printf("This will DELETE %s and all its data.\nType 'yes' to confirm: ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(answer) == "yes"
}

// removeDatabase deletes the database file along with the WAL siblings
// SQLite leaves next to it
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
