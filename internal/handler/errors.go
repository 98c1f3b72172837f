package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// User operation error messages
	ErrMsgRegisterUserFailed = "Failed to register user"
	ErrMsgGetProfileFailed   = "Failed to get profile"

	// Garden operation error messages
	ErrMsgCreateGardenFailed   = "Failed to create garden"
	ErrMsgJoinGardenFailed     = "Failed to join garden"
	ErrMsgInviteFailed         = "Failed to generate invite"
	ErrMsgGetGardenFailed      = "Failed to get garden"
	ErrMsgListGardensFailed    = "Failed to list gardens"

	// Plot operation error messages
	ErrMsgPlantFailed      = "Failed to plant crop"
	ErrMsgWaterFailed      = "Failed to water plot"
	ErrMsgHarvestFailed    = "Failed to harvest plot"
	ErrMsgRemoveWeedFailed = "Failed to remove weed"
	ErrMsgStealFailed      = "Failed to steal from plot"

	// Tree operation error messages
	ErrMsgPlantTreeFailed   = "Failed to plant tree"
	ErrMsgHarvestTreeFailed = "Failed to harvest tree"
	ErrMsgRemoveTreeFailed  = "Failed to remove tree"

	// Animal operation error messages
	ErrMsgBuyAnimalFailed  = "Failed to buy animal"
	ErrMsgFeedAnimalFailed = "Failed to feed animal"
	ErrMsgMoveAnimalFailed = "Failed to move animal"
	ErrMsgSellAnimalFailed = "Failed to sell animal"

	// Building operation error messages
	ErrMsgBuildFailed           = "Failed to build"
	ErrMsgStartProductionFailed = "Failed to start production"
	ErrMsgCollectFailed         = "Failed to collect production"
	ErrMsgDemolishFailed        = "Failed to demolish building"
)

// Success messages for API responses
const (
	MsgGardenJoinedSuccess = "Joined garden successfully"
	MsgWeedRemovedSuccess  = "Weed removed"
)
