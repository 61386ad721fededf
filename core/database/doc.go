// Package database handles catalog database connections and schema inspection.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the catalog database with
// pooling and per-operation timeouts baked into the DSN.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema. The verify
// command uses them to confirm the products table carries every column the
// sync pipeline writes, catching schema drift before a run mutates data.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "products", catalog.ProductColumns)
package database
