package domain

import "time"

// Operator represents a shop-floor worker identified by a 4-digit code
// on the terminal keypads.
type Operator struct {
	ID        int64
	Name      string
	Code      *string // nil until a supervisor assigns one
	IsActive  bool
	CreatedAt time.Time
}

// Item is a manufactured part.
type Item struct {
	ID   int64
	Name string
	Code string
}

// Task is a type of work (lathe, milling, deburring, ...) grouped by category.
type Task struct {
	ID       int64
	Name     string
	Category string
}

// ItemTask links a task type to an item and carries the time estimates the
// performance classifier compares against. Estimates are in seconds; nil
// means no estimate was configured and no classification is emitted.
type ItemTask struct {
	ID           int64
	ItemID       int64
	TaskID       int64
	SetupSeconds *int64
	PieceSeconds *int64
}

// Client is a customer of the shop.
type Client struct {
	ID   int64
	Name string
}
