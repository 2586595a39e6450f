package enum

// ── Item catalog ──

const (
	ItemTypeVeg    = "veg"
	ItemTypeNonVeg = "non-veg"
)

// ── Customization dialog (state machine) ──

const (
	DialogClosed    = "CLOSED"
	DialogOpen      = "OPEN"
	DialogCompleted = "COMPLETED"
)

const (
	StepLabelContinue = "Continue"
	StepLabelFinish   = "Finish"
)

// ── Navigation ──

const (
	RouteCartPage = "/cartpage"
)

// ── Socket events ──

const (
	EventNavigate = "navigate"
)

// ── Session backends ──

const (
	SessionBackendMemory   = "memory"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

// ── Environments ──

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
