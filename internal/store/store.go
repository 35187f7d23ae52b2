// Package store persists player records as one JSON file per username.
// Records hold item references as template IDs and are rehydrated into live
// instances against the catalog at load; write-through saves keep the disk
// copy current after every meaningful mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
)

// bcrypt cost factor, matching common server practice.
const bcryptCost = 12

// ErrNotFound is returned when no record exists for a username.
var ErrNotFound = errors.New("player not found")

// Store reads and writes per-player record files under one directory.
type Store struct {
	dir string

	// mu serializes writes per file; saves happen outside the game lock.
	mu sync.Mutex
}

// New creates the persist root if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create players dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Record is the on-disk shape of a player. Inventory and equipment are item
// template IDs; transient state (quest items, trades, combat) is not stored.
type Record struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`

	Location string `json:"location"`

	Level       int `json:"level"`
	XP          int `json:"xp"`
	BaseHealth  int `json:"baseHealth"`
	BaseMana    int `json:"baseMana"`
	BaseDamage  int `json:"baseDamage"`
	BaseDefense int `json:"baseDefense"`
	Health      int `json:"health"`
	Mana        int `json:"mana"`
	Gold        int `json:"gold"`

	Inventory []string          `json:"inventory"`
	Materials map[string]int    `json:"materials,omitempty"`
	Equipped  map[string]string `json:"equipped,omitempty"`

	KnownRecipes    []string       `json:"knownRecipes,omitempty"`
	ActiveQuests    map[string]int `json:"activeQuests,omitempty"`
	CompletedQuests []string       `json:"completedQuests,omitempty"`

	OneTimeEnemies []string         `json:"oneTimeEnemiesDefeated,omitempty"`
	OneTimeItems   []string         `json:"oneTimeItemsPickedUp,omitempty"`
	LastHarvest    map[string]int64 `json:"lastHarvest,omitempty"`

	Friends           []string `json:"friends,omitempty"`
	PvPWins           int      `json:"pvpWins"`
	PvPLosses         int      `json:"pvpLosses"`
	HomestoneLocation string   `json:"homestoneLocation,omitempty"`
	BannedUntil       int64    `json:"bannedUntil,omitempty"`
	IsGM              bool     `json:"isGm,omitempty"`
}

func (s *Store) path(username string) string {
	return filepath.Join(s.dir, strings.ToLower(username)+".json")
}

// Exists reports whether a record file exists for the username
// (case-insensitive).
func (s *Store) Exists(username string) bool {
	_, err := os.Stat(s.path(username))
	return err == nil
}

// Load reads a record by username.
func (s *Store) Load(username string) (*Record, error) {
	data, err := os.ReadFile(s.path(username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read player %s: %w", username, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse player %s: %w", username, err)
	}
	return &rec, nil
}

// Save writes a record atomically (temp file + rename).
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal player %s: %w", rec.Username, err)
	}
	path := s.path(rec.Username)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write player %s: %w", rec.Username, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to persist player %s: %w", rec.Username, err)
	}
	return nil
}

// Delete removes a record file.
func (s *Store) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(username)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete player %s: %w", username, err)
	}
	return nil
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// FromPlayer captures the persistent subset of a live record. Escrowed trade
// items count as the owner's: a trade in flight restores on disconnect.
func FromPlayer(p *player.Player) *Record {
	rec := &Record{
		ID:           p.ID,
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		Location:     p.Location,
		Level:        p.Level,
		XP:           p.XP,
		BaseHealth:   p.BaseHealth,
		BaseMana:     p.BaseMana,
		BaseDamage:   p.BaseDamage,
		BaseDefense:  p.BaseDefense,
		Health:       p.CurrentHealth,
		Mana:         p.CurrentMana,
		Gold:         p.Gold,

		Materials:         copyCounts(p.Materials),
		ActiveQuests:      copyCounts(p.ActiveQuests),
		KnownRecipes:      setToSlice(p.KnownRecipes),
		CompletedQuests:   setToSlice(p.CompletedQuests),
		OneTimeEnemies:    setToSlice(p.OneTimeEnemies),
		OneTimeItems:      setToSlice(p.OneTimeItems),
		LastHarvest:       copyCounts(p.LastHarvest),
		Friends:           append([]string(nil), p.Friends...),
		PvPWins:           p.PvPWins,
		PvPLosses:         p.PvPLosses,
		HomestoneLocation: p.HomestoneLocation,
		BannedUntil:       p.BannedUntil,
		IsGM:              p.IsGM,
	}

	for _, it := range p.Inventory {
		rec.Inventory = append(rec.Inventory, it.ID)
	}
	if p.Trade != nil {
		for _, it := range p.Trade.Items {
			rec.Inventory = append(rec.Inventory, it.ID)
		}
		rec.Gold += p.Trade.Gold
	}

	rec.Equipped = make(map[string]string)
	for slot, it := range p.Equipped {
		if it != nil {
			rec.Equipped[string(slot)] = it.ID
		}
	}
	return rec
}

// Hydrate rebuilds a live player record, resolving item IDs through lookup.
// Unknown IDs are dropped with no error: content may have changed between
// sessions.
func (r *Record) Hydrate(lookup func(id string) *items.Item, defaults game.PlayerDefaults) *player.Player {
	p := player.New(r.Username, r.PasswordHash, defaults)
	p.ID = r.ID
	p.Location = r.Location
	p.Level = r.Level
	p.XP = r.XP
	p.BaseHealth = r.BaseHealth
	p.BaseMana = r.BaseMana
	p.BaseDamage = r.BaseDamage
	p.BaseDefense = r.BaseDefense
	p.CurrentHealth = r.Health
	p.CurrentMana = r.Mana
	p.Gold = r.Gold

	for _, id := range r.Inventory {
		if tmpl := lookup(id); tmpl != nil {
			p.Inventory = append(p.Inventory, items.NewInstance(tmpl))
		}
	}
	for slot, id := range r.Equipped {
		if tmpl := lookup(id); tmpl != nil && items.ValidSlot(items.Slot(slot)) {
			p.Equipped[items.Slot(slot)] = items.NewInstance(tmpl)
		}
	}

	p.Materials = copyCounts(r.Materials)
	p.ActiveQuests = copyCounts(r.ActiveQuests)
	p.KnownRecipes = sliceToSet(r.KnownRecipes)
	p.CompletedQuests = sliceToSet(r.CompletedQuests)
	p.OneTimeEnemies = sliceToSet(r.OneTimeEnemies)
	p.OneTimeItems = sliceToSet(r.OneTimeItems)
	p.LastHarvest = copyCounts(r.LastHarvest)
	p.Friends = append([]string(nil), r.Friends...)
	p.PvPWins = r.PvPWins
	p.PvPLosses = r.PvPLosses
	p.HomestoneLocation = r.HomestoneLocation
	p.BannedUntil = r.BannedUntil
	p.IsGM = r.IsGM

	p.ClampVitals()
	if p.CurrentHealth <= 0 {
		p.CurrentHealth = p.MaxHealth()
	}
	return p
}

func copyCounts[V int | int64](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func sliceToSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, k := range list {
		out[k] = true
	}
	return out
}
