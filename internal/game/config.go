// Package game holds the game-balance configuration loaded from the content
// directory's config.json. Values here are immutable after load.
package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level shape of data/config.json.
type Config struct {
	PlayerDefaults PlayerDefaults `json:"playerDefaults"`
	Gameplay       Gameplay       `json:"gameplay"`
	Progression    Progression    `json:"progression"`
	Economy        Economy        `json:"economy"`
	RateLimit      RateLimit      `json:"rateLimit"`
}

// PlayerDefaults seeds a freshly registered player record.
type PlayerDefaults struct {
	StartingLocation string `json:"startingLocation"`
	Health           int    `json:"health"`
	Mana             int    `json:"mana"`
	Damage           int    `json:"damage"`
	Defense          int    `json:"defense"`
	Gold             int    `json:"gold"`
}

// Gameplay holds the moment-to-moment tuning knobs.
type Gameplay struct {
	MaxInventorySlots          int     `json:"maxInventorySlots"`
	FleeSuccessChance          float64 `json:"fleeSuccessChance"`
	EnemyRespawnTime           int     `json:"enemyRespawnTime"` // ms, fallback when an enemy omits its own
	DeathGoldLossPct           float64 `json:"deathGoldLossPct"`
	DeathRespawnLocation       string  `json:"deathRespawnLocation"`
	DamageVariance             float64 `json:"damageVariance"`
	CombatRoundDelayMs         int     `json:"combatRoundDelayMs"`
	EnemyCounterAttackDelayMs  int     `json:"enemyCounterAttackDelayMs"`
	PvPGoldLootPercentage      float64 `json:"pvpGoldLootPercentage"`
	DroppedItemLifetimeMs      int     `json:"droppedItemLifetimeMs"`
	MaxDroppedItemsPerLocation int     `json:"maxDroppedItemsPerLocation"`
	ItemUseCooldownMs          int     `json:"itemUseCooldownMs"`
}

// Progression controls leveling.
type Progression struct {
	BaseXpPerLevel    int     `json:"baseXpPerLevel"`
	XpMultiplier      float64 `json:"xpMultiplier"`
	HealthPerLevel    int     `json:"healthPerLevel"`
	ManaPerLevel      int     `json:"manaPerLevel"`
	DamagePerLevel    int     `json:"damagePerLevel"`
	DefensePerLevel   int     `json:"defensePerLevel"`
	MaxLevel          int     `json:"maxLevel"`
	FullHealOnLevelUp bool    `json:"fullHealOnLevelUp"`
}

// Economy controls shop pricing and healer costs.
type Economy struct {
	ShopBuyMultiplier  float64 `json:"shopBuyMultiplier"`
	ShopSellMultiplier float64 `json:"shopSellMultiplier"`
	HealerCostFactor   float64 `json:"healerCostFactor"`
}

// RateLimit controls per-IP registration and login throttling. Windows and
// cooldowns are in seconds. State is process-local; a restart resets it.
type RateLimit struct {
	Enabled                 bool `json:"enabled"`
	MaxAccountsPerIP        int  `json:"maxAccountsPerIP"`
	AccountCreationCooldown int  `json:"accountCreationCooldown"`
	LoginAttemptWindow      int  `json:"loginAttemptWindow"`
	MaxLoginAttempts        int  `json:"maxLoginAttempts"`
}

// Default returns the built-in balance values. Loaded config files override
// field by field.
func Default() *Config {
	return &Config{
		PlayerDefaults: PlayerDefaults{
			StartingLocation: "town_square",
			Health:           100,
			Mana:             50,
			Damage:           10,
			Defense:          5,
			Gold:             25,
		},
		Gameplay: Gameplay{
			MaxInventorySlots:          16,
			FleeSuccessChance:          0.5,
			EnemyRespawnTime:           30000,
			DeathGoldLossPct:           0.1,
			DeathRespawnLocation:       "town_square",
			DamageVariance:             0.1,
			CombatRoundDelayMs:         2000,
			EnemyCounterAttackDelayMs:  1000,
			PvPGoldLootPercentage:      0.2,
			DroppedItemLifetimeMs:      300000,
			MaxDroppedItemsPerLocation: 10,
			ItemUseCooldownMs:          1000,
		},
		Progression: Progression{
			BaseXpPerLevel:    100,
			XpMultiplier:      1.5,
			HealthPerLevel:    10,
			ManaPerLevel:      5,
			DamagePerLevel:    2,
			DefensePerLevel:   1,
			MaxLevel:          20,
			FullHealOnLevelUp: true,
		},
		Economy: Economy{
			ShopBuyMultiplier:  1.25,
			ShopSellMultiplier: 0.5,
			HealerCostFactor:   50,
		},
		RateLimit: RateLimit{
			Enabled:                 true,
			MaxAccountsPerIP:        3,
			AccountCreationCooldown: 60,
			LoginAttemptWindow:      300,
			MaxLoginAttempts:        5,
		},
	}
}

// Load reads config.json from path over the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config: %w", err)
	}

	if cfg.Gameplay.MaxInventorySlots <= 0 {
		return nil, fmt.Errorf("game config: maxInventorySlots must be positive")
	}
	if cfg.Progression.MaxLevel <= 0 {
		return nil, fmt.Errorf("game config: maxLevel must be positive")
	}
	return cfg, nil
}
