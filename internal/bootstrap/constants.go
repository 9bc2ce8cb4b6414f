package bootstrap

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	LogMsgFailedCreateDeadLetter    = "failed to create dead-letter writer"
)

// =============================================================================
// Anti-Cheat Configuration
// =============================================================================

const (
	// AntiCheatOverridePath is the optional JSON file that overrides the
	// environment-derived anti-cheat tunables at runtime.
	AntiCheatOverridePath = "configs/anticheat.json"

	// AntiCheatSchemaPath validates the override file when present.
	AntiCheatSchemaPath = "configs/schemas/anticheat.schema.json"

	LogMsgAntiCheatConfigLoaded   = "Anti-cheat config loaded"
	LogMsgAntiCheatOverrideFailed = "Anti-cheat override reload failed, keeping previous config"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgServerStopped        = "Server stopped"
	LogMsgStoppingSweepWorker  = "Stopping sweep worker..."
	LogMsgStoppingWorkerPool   = "Stopping side-effect workers..."
)

// DirPermission is the standard permission for creating directories
const DirPermission = 0755
