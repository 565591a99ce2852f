package metrics

// Metric names
const (
	MetricNameItemsPlaced      = "bazaar_items_placed_total"
	MetricNameItemsDisplaced   = "bazaar_items_displaced_total"
	MetricNameItemsCombined    = "bazaar_items_combined_total"
	MetricNameItemsDestroyed   = "bazaar_items_destroyed_total"
	MetricNameShopRefreshes    = "bazaar_shop_refreshes_total"
	MetricNameItemsGenerated   = "bazaar_shop_items_generated_total"
	MetricNameRevealsCompleted = "bazaar_reveals_completed_total"
	MetricNameRevealQueueDepth = "bazaar_reveal_queue_depth"
	MetricNamePhaseChanges     = "bazaar_phase_changes_total"
)

// Metric help text
const (
	HelpTextItemsPlaced      = "Total number of items placed on a grid"
	HelpTextItemsDisplaced   = "Total number of items evicted by another placement"
	HelpTextItemsCombined    = "Total number of item combinations"
	HelpTextItemsDestroyed   = "Total number of item instances destroyed"
	HelpTextShopRefreshes    = "Total number of shop refreshes"
	HelpTextItemsGenerated   = "Total number of items generated by the shop"
	HelpTextRevealsCompleted = "Total number of items revealed"
	HelpTextRevealQueueDepth = "Items waiting to be revealed"
	HelpTextPhaseChanges     = "Total number of game phase transitions"
)

// Label names
const (
	LabelGrid       = "grid"
	LabelRarity     = "rarity"
	LabelReason     = "reason"
	LabelPhase      = "phase"
	LabelSourceItem = "source_item"
	LabelResultItem = "result_item"
)

// Destroy reasons
const (
	ReasonCombined = "combined"
	ReasonRefresh  = "refresh"
	ReasonOverflow = "overflow"
	ReasonNewGame  = "new_game"
)
