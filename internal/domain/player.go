package domain

import "time"

type Player struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Gold      int64     `db:"gold" json:"gold"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
