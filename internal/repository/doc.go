// Package repository implements report.Repository over an in-memory table
// set and over a SQLite database.
//
// Both implementations address models and fields only by the names held in a
// mapping. Relations are followed through the catalog's relationFromFields /
// relationToFields metadata, so a relation named "lodge" on Working becomes
// the join Working.lodgeId = Lodge.id.
package repository
