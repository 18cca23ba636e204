package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldGroupID   = "group_id"
	FieldOffset    = "offset"
	FieldRecords   = "records"
	FieldRows      = "rows"
	FieldSnapshot  = "snapshot_id"
	FieldFile      = "file"
	FieldDropped   = "dropped"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentConfig    = "config"
	ComponentSplitwise = "splitwise"
	ComponentDashboard = "dashboard"
	ComponentStorage   = "storage"
	ComponentExport    = "export"
	ComponentDrive     = "gdrive"
	ComponentEmail     = "email"
	ComponentAMQP      = "amqp"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpTransform = "transform"
	OpStore     = "store"
	OpExport    = "export"
	OpUpload    = "upload"
	OpSend      = "send"
	OpPublish   = "publish"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
