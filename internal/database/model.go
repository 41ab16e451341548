package database

type SyncStatus struct {
	ID          int    `db:"ID"`
	LastOrderID int    `db:"LastOrderID"`
	LastSync    string `db:"LastSync"`
}

type ProcessedOrder struct {
	ID      int `db:"ID"`
	OrderID int `db:"OrderID"`
}

const DB_SCHEMA = `CREATE TABLE SyncStatus (
	ID integer PRIMARY KEY AUTOINCREMENT,
	LastOrderID integer,
	LastSync text
);

CREATE TABLE ProcessedOrder (
	ID integer PRIMARY KEY AUTOINCREMENT,
	OrderID integer
);
`
