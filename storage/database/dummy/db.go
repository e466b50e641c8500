// Package dummydb keeps every table in memory. It backs the tests and local runs without Postgres.
package dummydb

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/content"
	"github.com/SandyWyper/Know-How/core/listing"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
)

type (
	DB struct {
		account *accountTable
		profile *profileTable
		listing *listingTable
		review  *reviewTable
		content *contentTable
	}

	accountTable struct {
		sync.RWMutex
		table map[string]*account.Account
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*profile.Profile // by account ID
	}

	listingTable struct {
		sync.RWMutex
		table map[string]*listing.Listing
		slots map[string][]listing.TimeSlot // by listing ID
	}

	reviewTable struct {
		sync.RWMutex
		table map[string]*review.Review
	}

	contentTable struct {
		sync.RWMutex
		pages    map[string]*content.Page
		navs     map[string]*content.NavigationList
		navPages map[string][]string // list ID -> page IDs
	}
)

func Open() *DB {
	return &DB{
		account: &accountTable{table: make(map[string]*account.Account)},
		profile: &profileTable{table: make(map[string]*profile.Profile)},
		listing: &listingTable{
			table: make(map[string]*listing.Listing),
			slots: make(map[string][]listing.TimeSlot),
		},
		review: &reviewTable{table: make(map[string]*review.Review)},
		content: &contentTable{
			pages:    make(map[string]*content.Page),
			navs:     make(map[string]*content.NavigationList),
			navPages: make(map[string][]string),
		},
	}
}

// Transactor runs units of work directly: there is no rollback.
type Transactor struct{}

var _ core.Transactor = (*Transactor)(nil)

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (*Transactor) InTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	return fn(nil)
}

func newID() string { return uuid.New().String() }
