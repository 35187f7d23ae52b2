package command

import "fmt"

// GameError is a player-facing failure with a stable code for client-side
// localization. Game errors never mutate shared state; the dispatcher emits
// them as error-typed message frames.
type GameError struct {
	Code string
	Text string
}

func (e *GameError) Error() string { return e.Text }

// NewError builds a GameError with a formatted message.
func NewError(code, format string, args ...any) *GameError {
	return &GameError{Code: code, Text: fmt.Sprintf(format, args...)}
}

// Stable error codes, grouped by the taxonomy they belong to.
const (
	CodeAuthInvalidCredentials = "auth_invalid_credentials"
	CodeAuthUsernameTaken      = "auth_username_taken"
	CodeAuthUsernameMalformed  = "auth_username_malformed"
	CodeAuthPasswordTooShort   = "auth_password_too_short"
	CodeAuthBanned             = "auth_banned"

	CodeRateLimitCreation = "rate_limit_creation"
	CodeRateLimitAccounts = "rate_limit_accounts"
	CodeRateLimitLogins   = "rate_limit_logins"

	CodeMovementNoExit = "movement_no_exit"

	CodeLookupUnknownID = "lookup_unknown_id"

	CodeInventoryFull      = "inventory_full"
	CodeInventoryNotFound  = "inventory_not_found"
	CodeInventoryWrongType = "inventory_wrong_type"

	CodeEquipmentNotEquippable = "equipment_not_equippable"
	CodeEquipmentSlotEmpty     = "equipment_slot_empty"
	CodeEquipmentNoSpace       = "equipment_no_space"

	CodeCombatNotInCombat   = "combat_not_in_combat"
	CodeCombatTargetDead    = "combat_target_dead"
	CodeCombatTargetMissing = "combat_target_missing"
	CodeCombatPvPDisallowed = "combat_pvp_disallowed"
	CodeCombatNowhereToFlee = "combat_nowhere_to_flee"

	CodeItemUseCooldown     = "item_use_cooldown"
	CodeItemUseWrongContext = "item_use_wrong_context"
	CodeItemUseNoMana       = "item_use_no_mana"
	CodeItemUseNoTarget     = "item_use_no_target"
	CodeItemUseNoEffect     = "item_use_no_effect"

	CodeQuestNotEligible = "quest_not_eligible"
	CodeQuestNoSpace     = "quest_no_space"

	CodeTradeAlreadyTrading = "trade_already_trading"
	CodeTradeNotTrading     = "trade_not_trading"
	CodeTradeSameRoom       = "trade_same_room"
	CodeTradePartnerOffline = "trade_partner_offline"
	CodeTradeNoSpace        = "trade_no_space"
	CodeTradeSelf           = "trade_self"

	CodeShopNotStocked = "shop_not_stocked"
	CodeShopNoGold     = "shop_no_gold"
	CodeShopNoShop     = "shop_no_shop"

	CodeCraftUnknownRecipe = "craft_unknown_recipe"
	CodeCraftMissing       = "craft_missing_materials"
	CodeCraftLevel         = "craft_level_too_low"

	CodeHarvestNothing  = "harvest_nothing"
	CodeHarvestCooldown = "harvest_cooldown"

	CodeGmDenied = "gm_denied"

	CodeBadArguments = "bad_arguments"
	CodeUnknownVerb  = "unknown_verb"
)
