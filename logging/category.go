package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Database        Category = "Database"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Privacy         Category = "Privacy"
	Retention       Category = "Retention"
	Notification    Category = "Notification"
)

const (
	// General
	Startup      SubCategory = "Startup"
	Shutdown     SubCategory = "Shutdown"
	Migration    SubCategory = "Migration"
	Submission   SubCategory = "Submission"
	RateLimiting SubCategory = "RateLimiting"
	Cleanup      SubCategory = "Cleanup"
	Export       SubCategory = "Export"
	Erasure      SubCategory = "Erasure"
	Email        SubCategory = "Email"
	Audit        SubCategory = "Audit"
	Internal     SubCategory = "Internal"
	Login        SubCategory = "Login"
)

const (
	AppName       ExtraKey = "AppName"
	ClientIPHash  ExtraKey = "ClientIpHash"
	Method        ExtraKey = "Method"
	StatusCode    ExtraKey = "StatusCode"
	Path          ExtraKey = "Path"
	Latency       ExtraKey = "Latency"
	SubmissionID  ExtraKey = "SubmissionId"
	EventType     ExtraKey = "EventType"
	EmailHash     ExtraKey = "EmailHash"
	DeletedCount  ExtraKey = "DeletedCount"
	ExportedCount ExtraKey = "ExportedCount"
	ErrorMessage  ExtraKey = "ErrorMessage"
	Recipient     ExtraKey = "Recipient"
	Subject       ExtraKey = "Subject"
	Operation     ExtraKey = "Operation"
	UserID        ExtraKey = "UserId"
)
